package dto

import "github.com/shopspring/decimal"

type ImageRef struct {
	ID string `json:"id"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	Image       *ImageRef       `json:"image"`
	Stock       map[string]int  `json:"stock"`
	Spec        map[string]any  `json:"spec"`
	Tags        []string        `json:"tags"`
	CreateTime  string          `json:"createTime"`
	UpdateTime  string          `json:"updateTime"`
}

// ProductPage omits paging fields on some deployments; zero values are
// recomputed by the caller.
type ProductPage struct {
	Products    []Product `json:"products"`
	Total       int       `json:"total"`
	Page        int       `json:"page"`
	Size        int       `json:"size"`
	TotalPages  int       `json:"totalPages"`
	HasNext     *bool     `json:"hasNext"`
	HasPrevious *bool     `json:"hasPrevious"`
}
