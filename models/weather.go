package models

// WeatherRecord represents the current conditions for one city as reported by a provider
type WeatherRecord struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	TempC     float64 `json:"temp_c"`
	TempF     float64 `json:"temp_f"`
	Condition string  `json:"condition"`
	WindMph   float64 `json:"wind_mph"`
	WindDir   string  `json:"wind_dir"`
}

// ErrorResult carries the user-facing message for a failed lookup
type ErrorResult struct {
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ErrorResult) Error() string {
	return e.Message
}

// Result is the outcome of a single weather lookup.
// Exactly one of Record and Err is set.
type Result struct {
	Record *WeatherRecord `json:"record,omitempty"`
	Err    *ErrorResult   `json:"error,omitempty"`
}

// Success wraps a record into a Result
func Success(record WeatherRecord) Result {
	return Result{Record: &record}
}

// Failure wraps a message into a Result
func Failure(message string) Result {
	return Result{Err: &ErrorResult{Message: message}}
}

// Failed reports whether the lookup produced an ErrorResult
func (r Result) Failed() bool {
	return r.Err != nil
}
