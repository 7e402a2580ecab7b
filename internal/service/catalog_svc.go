package service

import (
	"context"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/model"
	"github.com/Gerry1Laxy/orders-backend/internal/repository"
)

// ==================== CatalogService 目录服务 ====================

// CatalogService 目录服务：分类、商铺与在售商品的公开查询
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	shopRepo     repository.ShopRepository
	infoRepo     repository.ProductInfoRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	shopRepo repository.ShopRepository,
	infoRepo repository.ProductInfoRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		shopRepo:     shopRepo,
		infoRepo:     infoRepo,
	}
}

// ListCategories 全部商品分类
func (s *CatalogService) ListCategories(ctx context.Context) ([]dto.CategoryVO, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	vos := make([]dto.CategoryVO, len(categories))
	for i, c := range categories {
		vos[i] = dto.CategoryVO{ID: c.ID, Name: c.Name}
	}
	return vos, nil
}

// ListShops 全部商铺
func (s *CatalogService) ListShops(ctx context.Context) ([]dto.ShopVO, error) {
	shops, err := s.shopRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	vos := make([]dto.ShopVO, len(shops))
	for i := range shops {
		vos[i] = *toShopVO(&shops[i])
	}
	return vos, nil
}

// GetShop 商铺详情
func (s *CatalogService) GetShop(ctx context.Context, id int64) (*dto.ShopVO, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return toShopVO(shop), nil
}

// ListProducts 在售商品查询，支持商铺/分类过滤、关键字搜索与分页
func (s *CatalogService) ListProducts(ctx context.Context, req *dto.ProductListRequest) (*dto.ProductListResponse, error) {
	filter := repository.ProductInfoFilter{
		ShopID:     req.ShopID,
		CategoryID: req.CategoryID,
		Keyword:    req.Search,
		OrderBy:    req.OrderBy,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	infos, total, err := s.infoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := make([]dto.ProductInfoVO, len(infos))
	for i := range infos {
		list[i] = toProductInfoVO(&infos[i])
	}
	return &dto.ProductListResponse{Total: total, List: list}, nil
}

// GetProduct 单条在售条目详情
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*dto.ProductInfoVO, error) {
	info, err := s.infoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrListingNotFound
	}
	vo := toProductInfoVO(info)
	return &vo, nil
}

// ==================== 辅助 ====================

func toProductInfoVO(info *model.ProductInfo) dto.ProductInfoVO {
	parameters := make([]dto.ProductParameterVO, len(info.Parameters))
	for i, pp := range info.Parameters {
		parameters[i] = dto.ProductParameterVO{Name: pp.Parameter.Name, Value: pp.Value}
	}
	return dto.ProductInfoVO{
		ID:         info.ID,
		ExternalID: info.ExternalID,
		Product:    info.Product.Name,
		Category:   info.Product.Category.Name,
		ShopID:     info.ShopID,
		Model:      info.Model,
		Quantity:   info.Quantity,
		Price:      info.Price,
		PriceRRC:   info.PriceRRC,
		Parameters: parameters,
	}
}
