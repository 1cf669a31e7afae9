package models

// ErrorMessageResponse is the body config.ErrorStatus writes on failed requests
type ErrorMessageResponse struct {
	Response string `json:"response"`
}
