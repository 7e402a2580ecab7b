package service

import "errors"

// 业务错误定义，controller 层据此映射 HTTP 状态码：
// 校验类 → 400，未找到 → 404，冲突类 → 409
var (
	// 用户 / 认证
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserInactive       = errors.New("账号未激活，请先确认邮箱")
	ErrInvalidToken       = errors.New("Token 无效")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrConfirmTokenBad    = errors.New("确认令牌不存在或已失效")
	ErrContactNotFound    = errors.New("联系方式不存在")

	// 购物车 / 订单
	ErrBasketNotFound   = errors.New("购物车不存在")
	ErrBasketExists     = errors.New("购物车已存在，请先清空或整组替换")
	ErrOrderNotFound    = errors.New("订单不存在")
	ErrInvalidQuantity  = errors.New("商品数量必须为正整数")
	ErrListingNotFound  = errors.New("在售条目不存在")
	ErrOrderNotPlacable = errors.New("订单当前状态不允许下单")

	// 目录导入
	ErrShopNotFound  = errors.New("商铺不存在")
	ErrFeedSourceBad = errors.New("必须提供价目表 url 或 data 之一")
)
