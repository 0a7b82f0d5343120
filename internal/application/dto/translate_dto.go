package dto

// TranslateRequest 翻译请求 DTO
// SourceLang may be empty, in which case the source language is detected.
type TranslateRequest struct {
	Text       string `json:"text" binding:"required,max=10000"`
	SourceLang string `json:"sourceLang" binding:"omitempty,max=16"`
	TargetLang string `json:"targetLang" binding:"required,max=16"`
}

// TranslateResponse 翻译响应 DTO
type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

//Personal.AI order the ending
