package advice

import (
	"fmt"
	"math"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/weather"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Category string

const (
	CategoryWatering    Category = "watering"
	CategoryProtection  Category = "protection"
	CategoryMaintenance Category = "maintenance"
	CategoryGeneral     Category = "general"
)

type CareTip struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
}

// Conditions is the input to the care rules. Forecast is consulted only
// when Premium is set; index 0 is today.
type Conditions struct {
	Current  weather.Current
	Forecast []weather.ForecastDay
	Premium  bool
}

func (c Conditions) day(i int) (weather.Day, bool) {
	if !c.Premium || i >= len(c.Forecast) {
		return weather.Day{}, false
	}
	return c.Forecast[i].Day, true
}

type careRule struct {
	id          string
	title       string
	priority    Priority
	category    Category
	applies     func(Conditions) bool
	description func(Conditions) string
}

func fixed(s string) func(Conditions) string {
	return func(Conditions) string { return s }
}

// careRules are evaluated in order and independently; none suppresses
// another.
var careRules = []careRule{
	{
		id: "cold", title: "Защита от холода", priority: PriorityHigh, category: CategoryProtection,
		applies:     func(c Conditions) bool { return c.Current.TempC < 5 },
		description: fixed("Перенесите растения в тёплое помещение или укройте агротекстилем. Сократите полив и проверьте корни на загнивание."),
	},
	{
		id: "heat", title: "Защита от жары", priority: PriorityHigh, category: CategoryWatering,
		applies:     func(c Conditions) bool { return c.Current.TempC > 30 },
		description: fixed("Создайте тень и увлажните листья. Поливайте чаще, небольшими порциями, чтобы не залить корни."),
	},
	{
		id: "temperature_swing", title: "Резкое изменение температуры завтра", priority: PriorityHigh, category: CategoryProtection,
		applies: func(c Conditions) bool {
			tomorrow, ok := c.day(1)
			return ok && math.Abs(tomorrow.AvgTempC-c.Current.TempC) > 10
		},
		description: func(c Conditions) string {
			tomorrow, _ := c.day(1)
			trend := "похолодание"
			if tomorrow.AvgTempC > c.Current.TempC {
				trend = "потепление"
			}
			return fmt.Sprintf("Завтра ожидается %s до %d°C. Подготовьте растения заранее.", trend, int(math.Round(tomorrow.AvgTempC)))
		},
	},
	{
		id: "rain_tomorrow", title: "Дождь завтра", priority: PriorityMedium, category: CategoryWatering,
		applies: func(c Conditions) bool {
			tomorrow, ok := c.day(1)
			return ok && tomorrow.TotalPrecipMM > 5
		},
		description: func(c Conditions) string {
			tomorrow, _ := c.day(1)
			return fmt.Sprintf("Завтра ожидается %dмм осадков. Отложите полив и проверьте дренаж.", int(math.Round(tomorrow.TotalPrecipMM)))
		},
	},
	{
		id: "dry_spell", title: "Планируйте полив", priority: PriorityMedium, category: CategoryWatering,
		applies: func(c Conditions) bool {
			tomorrow, ok1 := c.day(1)
			after, ok2 := c.day(2)
			return ok1 && ok2 && tomorrow.TotalPrecipMM+after.TotalPrecipMM < 2 && c.Current.PrecipMM < 1
		},
		description: fixed("В ближайшие 3 дня дождя не ожидается. Увеличьте частоту полива."),
	},
	{
		id: "feels_hotter", title: "Ощущается намного жарче", priority: PriorityMedium, category: CategoryWatering,
		applies:     func(c Conditions) bool { return c.Current.FeelsLikeC-c.Current.TempC >= 5 },
		description: fixed("Учитывайте факторы влажности и ветра: создайте затенение и опрыскивайте ночью."),
	},
	{
		id: "feels_colder", title: "Ощущается холоднее", priority: PriorityMedium, category: CategoryProtection,
		applies:     func(c Conditions) bool { return c.Current.TempC-c.Current.FeelsLikeC >= 5 },
		description: fixed("Защитите от ветра, укройте низкорослые растения."),
	},
	{
		id: "low_humidity", title: "Низкая влажность", priority: PriorityMedium, category: CategoryMaintenance,
		applies:     func(c Conditions) bool { return c.Current.Humidity < 40 },
		description: fixed("Используйте увлажнитель воздуха и опрыскивания. Поставьте поддоны с водой рядом с растениями."),
	},
	{
		id: "high_humidity", title: "Высокая влажность", priority: PriorityMedium, category: CategoryMaintenance,
		applies:     func(c Conditions) bool { return c.Current.Humidity > 80 },
		description: fixed("Проверьте вентиляцию и избегайте переувлажнения почвы, чтобы не было грибка."),
	},
	{
		id: "wind", title: "Сильный ветер", priority: PriorityHigh, category: CategoryProtection,
		applies:     func(c Conditions) bool { return c.Current.WindKph > 20 },
		description: fixed("Перенесите горшки в укрытие и проверьте опоры у высоких растений."),
	},
	{
		id: "gusts", title: "Сильные порывы ветра", priority: PriorityHigh, category: CategoryProtection,
		applies:     func(c Conditions) bool { return c.Current.GustKph > 35 },
		description: fixed("Укрепите конструкции теплицы и подвязки стеблей."),
	},
	{
		id: "precipitation", title: "Идут осадки", priority: PriorityMedium, category: CategoryWatering,
		applies:     func(c Conditions) bool { return c.Current.PrecipMM > 0 },
		description: fixed("Отложите ручной полив и убедитесь, что дренаж работает исправно."),
	},
	{
		id: "low_visibility", title: "Плохая видимость", priority: PriorityLow, category: CategoryGeneral,
		applies:     func(c Conditions) bool { return c.Current.VisKm < 2 },
		description: fixed("Регулярно протирайте листья от росы и конденсата."),
	},
	{
		id: "high_uv", title: "Высокий УФ-индекс", priority: PriorityHigh, category: CategoryProtection,
		applies:     func(c Conditions) bool { return c.Current.UV > 7 },
		description: fixed("Укройте растения агросеткой с 50-70% затенения в часы 11:00-15:00."),
	},
	{
		id: "low_uv", title: "Низкий УФ-индекс", priority: PriorityLow, category: CategoryGeneral,
		applies:     func(c Conditions) bool { return c.Current.UV < 2 && c.Current.IsDay == 1 },
		description: fixed("Можно временно убрать тень и дать больше света растениям."),
	},
	{
		id: "night", title: "Ночной уход", priority: PriorityLow, category: CategoryGeneral,
		applies:     func(c Conditions) bool { return c.Current.IsDay == 0 },
		description: fixed("Лучшее время для опрыскивания и ухода без лишнего испарения."),
	},
	{
		id: "overcast", title: "Сильная облачность", priority: PriorityMedium, category: CategoryWatering,
		applies:     func(c Conditions) bool { return c.Current.Cloud > 75 },
		description: fixed("Уменьшите полив на 10-20%, так как испарение замедлено."),
	},
	{
		id: "clear_sky", title: "Ясная погода", priority: PriorityMedium, category: CategoryWatering,
		applies:     func(c Conditions) bool { return c.Current.Cloud < 25 },
		description: fixed("Проверьте влажность почвы чаще: солнце усиливает испарение."),
	},
}

// CareTips returns every rule that fires for c, in rule order.
func CareTips(c Conditions) []CareTip {
	tips := []CareTip{}
	for _, r := range careRules {
		if !r.applies(c) {
			continue
		}
		tips = append(tips, CareTip{
			ID:          r.id,
			Title:       r.title,
			Description: r.description(c),
			Priority:    r.priority,
			Category:    r.category,
		})
	}
	return tips
}
