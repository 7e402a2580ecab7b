package feed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-yaml"
)

// ==================== 价目表文档 ====================

// Document 合作方提交的价目表
// 结构示例：
//
//	shop: 连接世界
//	categories:
//	  - id: 224
//	    name: 智能手机
//	goods:
//	  - id: 4216292
//	    category: 224
//	    model: apple/iphone/xs-max
//	    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
//	    price: 110000
//	    price_rrc: 116990
//	    quantity: 14
//	    parameters:
//	      "Цвет": золотистый
type Document struct {
	Shop       string     `yaml:"shop"`
	Categories []Category `yaml:"categories"`
	Goods      []Good     `yaml:"goods"`
}

// Category 价目表中的分类声明
type Category struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// Good 价目表中的单条在售商品
type Good struct {
	ID         int64             `yaml:"id"`       // 供应商 SKU
	Category   int64             `yaml:"category"` // 分类外部 ID
	Name       string            `yaml:"name"`
	Model      string            `yaml:"model"`
	Price      int64             `yaml:"price"`
	PriceRRC   int64             `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity"`
	Parameters map[string]string `yaml:"parameters"`
}

// ==================== 错误定义 ====================

var (
	// ErrFormat 价目表格式不合法（缺字段、负数价格等）
	ErrFormat = errors.New("价目表格式不合法")
	// ErrFetch 价目表拉取失败（URL 不可达、非 2xx 响应）
	ErrFetch = errors.New("价目表拉取失败")
)

// ==================== 解析与校验 ====================

// Parse 解析 YAML 价目表并做结构校验
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate 校验价目表内容
// 规则：shop 非空；分类 id 为正且名称非空；商品必须引用已声明的分类，
// 价格/库存不允许为负
func (d *Document) Validate() error {
	if d.Shop == "" {
		return fmt.Errorf("%w: 缺少 shop 字段", ErrFormat)
	}

	declared := make(map[int64]struct{}, len(d.Categories))
	for _, c := range d.Categories {
		if c.ID <= 0 {
			return fmt.Errorf("%w: 分类 id 必须为正整数", ErrFormat)
		}
		if c.Name == "" {
			return fmt.Errorf("%w: 分类 %d 缺少名称", ErrFormat, c.ID)
		}
		declared[c.ID] = struct{}{}
	}

	for _, g := range d.Goods {
		if g.Name == "" {
			return fmt.Errorf("%w: 商品 %d 缺少名称", ErrFormat, g.ID)
		}
		if _, ok := declared[g.Category]; !ok {
			return fmt.Errorf("%w: 商品 %q 引用了未声明的分类 %d", ErrFormat, g.Name, g.Category)
		}
		if g.Price < 0 || g.PriceRRC < 0 {
			return fmt.Errorf("%w: 商品 %q 价格不能为负", ErrFormat, g.Name)
		}
		if g.Quantity < 0 {
			return fmt.Errorf("%w: 商品 %q 库存不能为负", ErrFormat, g.Name)
		}
	}
	return nil
}

// ==================== 拉取 ====================

// Fetcher 通过 URL 拉取价目表
// 只接受 http/https 地址；不支持本地文件路径，避免任意文件读取
type Fetcher struct {
	client *resty.Client
}

// NewFetcher 创建拉取器
func NewFetcher() *Fetcher {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2)
	return &Fetcher{client: client}
}

// Fetch 拉取并解析远端价目表
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: 非法 URL %q", ErrFetch, rawURL)
	}

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: 远端返回 %d", ErrFetch, resp.StatusCode())
	}

	return Parse(resp.Body())
}
