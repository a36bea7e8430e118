package v1

import (
	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/shenikar/fire_calls_analysis/internal/query"
)

// DTOToParams накладывает параметры из запроса на значения по умолчанию
func DTOToParams(dto RunQueryRequest, defaults query.Params) query.Params {
	p := defaults
	if dto.Year != nil {
		p.Year = *dto.Year
	}
	if dto.Threshold != nil {
		p.DelayThreshold = *dto.Threshold
	}
	if len(dto.Zip) > 0 {
		p.ZipCodes = dto.Zip
	}
	return p
}

// ModelToResultResponse преобразует результат в DTO, оставляя не больше limit строк.
// limit <= 0 означает все строки.
func ModelToResultResponse(model *models.Result, limit int) *ResultResponse {
	rows := model.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return &ResultResponse{
		RunID:       model.RunID,
		Query:       model.Query,
		Title:       model.Title,
		Columns:     model.Columns,
		Rows:        rows,
		TotalRows:   model.TotalRows,
		Truncated:   len(rows) < model.TotalRows,
		GeneratedAt: model.GeneratedAt,
	}
}

// ModelsToQueryResponses преобразует слайс описаний запросов в слайс DTO
func ModelsToQueryResponses(infos []models.QueryInfo) []QueryResponse {
	responses := make([]QueryResponse, len(infos))
	for i, info := range infos {
		responses[i] = QueryResponse{Name: info.Name, Title: info.Title}
	}
	return responses
}
