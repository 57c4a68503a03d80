package weather

type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type Location struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type Current struct {
	TempC      float64   `json:"temp_c"`
	FeelsLikeC float64   `json:"feelslike_c"`
	Humidity   float64   `json:"humidity"`
	WindKph    float64   `json:"wind_kph"`
	GustKph    float64   `json:"gust_kph"`
	PrecipMM   float64   `json:"precip_mm"`
	UV         float64   `json:"uv"`
	IsDay      int       `json:"is_day"`
	Cloud      float64   `json:"cloud"`
	VisKm      float64   `json:"vis_km"`
	Condition  Condition `json:"condition"`
}

type Day struct {
	MaxTempC      float64   `json:"maxtemp_c"`
	MinTempC      float64   `json:"mintemp_c"`
	AvgTempC      float64   `json:"avgtemp_c"`
	MaxWindKph    float64   `json:"maxwind_kph"`
	TotalPrecipMM float64   `json:"totalprecip_mm"`
	AvgHumidity   float64   `json:"avghumidity"`
	UV            float64   `json:"uv"`
	Condition     Condition `json:"condition"`
}

type ForecastDay struct {
	Date string `json:"date"`
	Day  Day    `json:"day"`
}

type Forecast struct {
	Days []ForecastDay `json:"forecastday"`
}

// Report is a current-conditions response. Forecast is set only when a
// multi-day forecast was requested.
type Report struct {
	Location Location  `json:"location"`
	Current  Current   `json:"current"`
	Forecast *Forecast `json:"forecast,omitempty"`
}

type Place struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
