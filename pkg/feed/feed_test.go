package feed

import (
	"context"
	"errors"
	"testing"
)

const sampleFeed = `
shop: 连接世界
categories:
  - id: 224
    name: 智能手机
  - id: 15
    name: 配件
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Диагональ (дюйм)": 6.5
      "Цвет": золотистый
  - id: 4216313
    category: 15
    model: a-data/sd
    name: Карта памяти
    price: 3000
    price_rrc: 3500
    quantity: 12
    parameters: {}
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Shop != "连接世界" {
		t.Errorf("Shop = %q", doc.Shop)
	}
	if len(doc.Categories) != 2 {
		t.Fatalf("len(Categories) = %d, want 2", len(doc.Categories))
	}
	if len(doc.Goods) != 2 {
		t.Fatalf("len(Goods) = %d, want 2", len(doc.Goods))
	}

	g := doc.Goods[0]
	if g.ID != 4216292 {
		t.Errorf("Goods[0].ID = %d", g.ID)
	}
	if g.Category != 224 {
		t.Errorf("Goods[0].Category = %d", g.Category)
	}
	if g.PriceRRC != 116990 {
		t.Errorf("Goods[0].PriceRRC = %d", g.PriceRRC)
	}
	if g.Parameters["Цвет"] != "золотистый" {
		t.Errorf("Goods[0].Parameters = %v", g.Parameters)
	}
}

func TestParse_NotYAML(t *testing.T) {
	_, err := Parse([]byte("{{{"))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestValidate_MissingShop(t *testing.T) {
	_, err := Parse([]byte("categories: []\ngoods: []\n"))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestValidate_UndeclaredCategory(t *testing.T) {
	data := `
shop: 测试商铺
categories:
  - id: 1
    name: 分类一
goods:
  - id: 100
    category: 2
    name: 不存在分类的商品
    price: 10
    price_rrc: 12
    quantity: 1
`
	_, err := Parse([]byte(data))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestValidate_NegativePrice(t *testing.T) {
	data := `
shop: 测试商铺
categories:
  - id: 1
    name: 分类一
goods:
  - id: 100
    category: 1
    name: 负价商品
    price: -1
    price_rrc: 12
    quantity: 1
`
	_, err := Parse([]byte(data))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestValidate_NegativeQuantity(t *testing.T) {
	data := `
shop: 测试商铺
categories:
  - id: 1
    name: 分类一
goods:
  - id: 100
    category: 1
    name: 负库存商品
    price: 1
    price_rrc: 2
    quantity: -3
`
	_, err := Parse([]byte(data))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestFetch_BadURL(t *testing.T) {
	f := NewFetcher()

	for _, raw := range []string{"", "file:///etc/passwd", "ftp://host/feed.yaml", "not-a-url"} {
		_, err := f.Fetch(context.Background(), raw)
		if !errors.Is(err, ErrFetch) {
			t.Errorf("Fetch(%q) err = %v, want ErrFetch", raw, err)
		}
	}
}
