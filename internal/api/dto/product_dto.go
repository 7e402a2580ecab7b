package dto

// ==================== 请求 ====================

// ProductListRequest 商品列表查询参数
type ProductListRequest struct {
	ShopID     int64  `form:"shop_id"`
	CategoryID int64  `form:"category_id"`
	Search     string `form:"search"`
	OrderBy    string `form:"ordering"` // price / quantity
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// ==================== 响应 ====================

// CategoryVO 分类
type CategoryVO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductParameterVO 商品参数取值
type ProductParameterVO struct {
	Name  string `json:"parameter"`
	Value string `json:"value"`
}

// ProductInfoVO 在售条目
type ProductInfoVO struct {
	ID         int64                `json:"id"`
	ExternalID int64                `json:"external_id"`
	Product    string               `json:"product"`
	Category   string               `json:"category"`
	ShopID     int64                `json:"shop_id"`
	Model      string               `json:"model"`
	Quantity   int                  `json:"quantity"`
	Price      int64                `json:"price"`
	PriceRRC   int64                `json:"price_rrc"`
	Parameters []ProductParameterVO `json:"parameters"`
}

// ProductListResponse 商品列表响应
type ProductListResponse struct {
	Total int64           `json:"total"`
	List  []ProductInfoVO `json:"list"`
}
