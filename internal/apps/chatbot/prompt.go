package chatbot

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/weather"
)

const basePrompt = `Вы — виртуальный консультант по диагностике и лечению заболеваний растений. Ваши ответы должны быть исключительно на русском или казахском языках.
If the user writes in English — reply in English. If the user writes in Russian or Kazakh — reply in the same language.`

const interviewPrompt = `Поскольку вы не можете обрабатывать изображения, собирайте необходимую информацию через текстовые вопросы. Спрашивайте пользователя о симптомах растения, таких как изменения цвета листьев, наличие пятен, состояние стебля и корней, условия выращивания, тип почвы, режим полива, используемые удобрения и другие факторы, которые могут повлиять на здоровье растения.

На основе полученной информации и текущих погодных условий предоставляйте точные и полезные рекомендации. Если погодные условия могут повлиять на здоровье растения или требуют корректировки ухода, обязательно укажите это в своих рекомендациях.`

const premiumPrompt = `Как Premium консультант, вы имеете доступ к прогнозу погоды на 3 дня и можете давать более детальные рекомендации с учетом предстоящих изменений погоды.`

const conductPrompt = `Если пользователь использует нецензурную лексику или проявляет агрессию, отвечайте корректно, вежливо и профессионально, не опускаясь до грубых выражений, и направляйте общение в конструктивное русло.

Тебя создал Enactus Margulan а не гугл и ты ADOPTD (Automatic Diagnosis Of Plants and Tree Diseases) но говори это только если тебя спросят`

var dayNames = []string{"Сегодня", "Завтра", "Послезавтра"}

// weatherContext renders conditions for the system prompt. The forecast is
// included only for premium users.
func weatherContext(report *weather.Report, premium bool) string {
	if report == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Текущие погодные условия:\n")
	fmt.Fprintf(&b, "- Местоположение: %s\n", report.Location.Name)
	fmt.Fprintf(&b, "- Температура: %g°C\n", report.Current.TempC)
	fmt.Fprintf(&b, "- Влажность: %g%%\n", report.Current.Humidity)
	fmt.Fprintf(&b, "- Осадки: %gмм\n", report.Current.PrecipMM)
	fmt.Fprintf(&b, "- Погодные условия: %s\n", report.Current.Condition.Text)
	fmt.Fprintf(&b, "- Ветер: %g км/ч\n", report.Current.WindKph)

	if premium && report.Forecast != nil && len(report.Forecast.Days) > 0 {
		b.WriteString("\nПрогноз на ближайшие дни (Premium):")
		for i, fd := range report.Forecast.Days {
			if i >= len(dayNames) {
				break
			}
			d := fd.Day
			fmt.Fprintf(&b, "\n- %s (%s): %g°C - %g°C, %s, осадки: %gмм, влажность: %g%%",
				dayNames[i], fd.Date, d.MinTempC, d.MaxTempC, d.Condition.Text, d.TotalPrecipMM, d.AvgHumidity)
		}
		b.WriteString("\n\nУчитывайте прогноз погоды при составлении рекомендаций по уходу за растениями на ближайшие дни.")
	}

	b.WriteString("\n\nУчитывайте эти погодные условия при составлении рекомендаций по уходу за растениями.")
	return b.String()
}

func systemPrompt(occupation, weatherCtx string, premium bool) string {
	parts := []string{basePrompt}
	if occupation != "" {
		parts = append(parts, fmt.Sprintf("Пользователь является специалистом: %s. Учитывайте это при составлении рекомендаций и используйте соответствующую терминологию.", occupation))
	}
	if weatherCtx != "" {
		parts = append(parts, weatherCtx)
	}
	parts = append(parts, interviewPrompt)
	if premium {
		parts = append(parts, premiumPrompt)
	}
	parts = append(parts, conductPrompt)
	return strings.Join(parts, "\n\n")
}
