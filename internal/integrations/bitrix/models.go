package bitrix

// leadListRequest тело запроса crm.lead.list
type leadListRequest struct {
	Filter map[string]interface{} `json:"filter"`
	Select []string               `json:"select"`
	Start  int                    `json:"start"`
}

// Lead лид Bitrix24 (только нужные поля)
// Bitrix24 отдает числа строками
type Lead struct {
	ID       string `json:"ID"`
	StatusID string `json:"STATUS_ID"`
}

// leadListResponse ответ crm.lead.list
// Next отсутствует на последней странице
type leadListResponse struct {
	Result []Lead `json:"result"`
	Next   *int   `json:"next,omitempty"`
	Total  int    `json:"total"`
}

// errorResponse модель ошибки REST API Bitrix24
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
