package model

import "gorm.io/datatypes"

// ==================== Shop 商铺 ====================

// Shop 合作方商铺
// 同一个合作方账号下商铺名唯一：重复上架只更新，不会生成重复记录
type Shop struct {
	BaseModel
	Name   string `gorm:"size:255;not null;uniqueIndex:idx_shops_owner_name"`
	UserID int64  `gorm:"not null;uniqueIndex:idx_shops_owner_name"`
	URL    string `gorm:"size:500"`

	// 最近一次成功导入的原始价目表（PostgreSQL JSONB，审计用）
	LastFeed datatypes.JSON `gorm:"type:jsonb"`

	// 接单状态：false 时商铺暂停营业，不参与新订单
	Status bool `gorm:"default:true"`

	// 关联
	Categories   []Category    `gorm:"many2many:shop_categories;"`
	ProductInfos []ProductInfo `gorm:"foreignKey:ShopID"`
}

func (Shop) TableName() string {
	return "shops"
}

// ==================== Category 商品分类 ====================

// Category 商品分类
// ID 由价目表外部指定，不自增；多个商铺可共享同一分类
type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`

	Shops []Shop `gorm:"many2many:shop_categories;" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// ==================== Product 商品 ====================

// Product 商品，按 (名称, 分类) 唯一
type Product struct {
	BaseModel
	Name       string `gorm:"size:255;not null;uniqueIndex:idx_products_name_category"`
	CategoryID int64  `gorm:"not null;uniqueIndex:idx_products_name_category"`

	Category Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string {
	return "products"
}

// ==================== ProductInfo 商铺在售条目 ====================

// ProductInfo 某个商铺对某个商品的在售条目（价格/库存快照）
// 每次价目表导入对该商铺整组替换，旧条目不保留
type ProductInfo struct {
	BaseModel
	ExternalID int64 `gorm:"index;not null"` // 供应商 SKU，非全局唯一
	ProductID  int64 `gorm:"index;not null"`
	ShopID     int64 `gorm:"index;not null"`

	Name     string `gorm:"size:255"`
	Model    string `gorm:"size:255"`
	Quantity int    `gorm:"not null"`
	Price    int64  `gorm:"not null"`
	PriceRRC int64  `gorm:"not null"` // 建议零售价

	// 关联
	Product    Product            `gorm:"foreignKey:ProductID"`
	Shop       Shop               `gorm:"foreignKey:ShopID"`
	Parameters []ProductParameter `gorm:"foreignKey:ProductInfoID"`
}

func (ProductInfo) TableName() string {
	return "product_infos"
}

// ==================== Parameter 商品参数 ====================

// Parameter 参数名全局共享（如 color / weight），首次出现时创建
type Parameter struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"`
}

func (Parameter) TableName() string {
	return "parameters"
}

// ProductParameter 在售条目与参数的取值关联
type ProductParameter struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	ProductInfoID int64  `gorm:"index;not null"`
	ParameterID   int64  `gorm:"index;not null"`
	Value         string `gorm:"size:255"`

	Parameter Parameter `gorm:"foreignKey:ParameterID"`
}

func (ProductParameter) TableName() string {
	return "product_parameters"
}
