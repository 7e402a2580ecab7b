package model

import "time"

// ==================== 用户类型常量 ====================

// UserType 账号类型
const (
	UserTypeBuyer = "buyer" // 买家
	UserTypeShop  = "shop"  // 商铺合作方
)

// ContactType 联系方式类型
const (
	ContactTypeEmail   = "email"
	ContactTypePhone   = "phone"
	ContactTypeAddress = "address"
)

// ==================== User 用户 ====================

// User 系统用户（买家 / 商铺合作方共用一张表，按 Type 区分）
type User struct {
	BaseModel
	Username  string `gorm:"size:100;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt 哈希
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`

	// 账号类型: buyer (买家), shop (商铺合作方)
	Type string `gorm:"size:10;default:'buyer'"`

	// 邮箱确认前账号不可登录
	IsActive bool `gorm:"default:false"`

	// 关联
	Contacts []Contact `gorm:"foreignKey:UserID"`
	Orders   []Order   `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// IsShop 是否为商铺合作方账号
func (u *User) IsShop() bool {
	return u.Type == UserTypeShop
}

// ==================== Contact 联系方式 ====================

// Contact 用户联系方式（下单时作为收货信息引用）
type Contact struct {
	BaseModel
	UserID int64  `gorm:"index;not null"`
	Type   string `gorm:"size:20;not null"` // email, phone, address
	Value  string `gorm:"size:255;not null"`
}

func (Contact) TableName() string {
	return "contacts"
}

// ==================== ConfirmEmailToken 邮箱确认令牌 ====================

// ConfirmEmailToken 注册后发送的邮箱确认令牌，确认成功即删除
type ConfirmEmailToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"index;not null"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (ConfirmEmailToken) TableName() string {
	return "confirm_email_tokens"
}
