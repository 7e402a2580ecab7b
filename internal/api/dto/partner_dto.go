package dto

// ==================== 请求 ====================

// PartnerUpdateRequest 价目表导入请求
// url 与 data 二选一：url 为远端 YAML 地址，data 为直接上传的 YAML 文本
type PartnerUpdateRequest struct {
	URL  string `json:"url"`
	Data string `json:"data"`
}

// PartnerStatusRequest 商铺接单状态切换请求
type PartnerStatusRequest struct {
	Status *bool `json:"status" binding:"required"`
}

// ==================== 响应 ====================

// ImportResultVO 价目表导入结果统计
type ImportResultVO struct {
	ShopID           int64  `json:"shop_id"`
	ShopName         string `json:"shop_name"`
	ShopCreated      bool   `json:"shop_created"`
	Categories       int    `json:"categories"`
	NewCategories    int    `json:"new_categories"`
	Listings         int    `json:"listings"`
	NewProducts      int    `json:"new_products"`
	NewParameters    int    `json:"new_parameters"`
	RemovedListings  int64  `json:"removed_listings"`
	ImportedGoodRows int    `json:"imported_good_rows"`
}

// ShopVO 商铺
type ShopVO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Status bool   `json:"status"`
}
