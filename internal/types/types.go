package types

// Response 是一个通用的API响应结构，用于统一返回格式。
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// InsertRequest 定义了插入字符串时的请求体结构。
type InsertRequest struct {
	Word string `json:"word" binding:"required"`
}

// CountResponse 定义了计数类查询的响应结构。
type CountResponse struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// RankResponse 定义了排名查询的响应结构。
type RankResponse struct {
	Word  string `json:"word"`
	Rank  int    `json:"rank"`
	Total int    `json:"total"`
}

// WordResponse 定义了返回单个字符串的响应结构。
type WordResponse struct {
	Word string `json:"word"`
}
