package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/model"
	"github.com/Gerry1Laxy/orders-backend/internal/repository"
	"github.com/Gerry1Laxy/orders-backend/pkg/feed"
)

// ==================== PartnerService 合作方服务 ====================

// PartnerService 合作方服务：价目表导入与接单状态
type PartnerService struct {
	uow      *repository.CatalogUnitOfWork
	shopRepo repository.ShopRepository
	fetcher  *feed.Fetcher
	notifier Notifier
	logger   *zap.Logger

	// 同一商铺的导入串行执行，避免并发全量替换互相覆盖
	importMu  sync.Mutex
	importing map[string]*sync.Mutex
}

// NewPartnerService 创建合作方服务
func NewPartnerService(
	uow *repository.CatalogUnitOfWork,
	shopRepo repository.ShopRepository,
	fetcher *feed.Fetcher,
	notifier Notifier,
	logger *zap.Logger,
) *PartnerService {
	return &PartnerService{
		uow:       uow,
		shopRepo:  shopRepo,
		fetcher:   fetcher,
		notifier:  notifier,
		logger:    logger,
		importing: make(map[string]*sync.Mutex),
	}
}

// ==================== 价目表导入 ====================

// Import 导入价目表，url 与 data 二选一
func (s *PartnerService) Import(ctx context.Context, userID int64, email string, req *dto.PartnerUpdateRequest) (*dto.ImportResultVO, error) {
	if (req.URL == "") == (req.Data == "") {
		return nil, ErrFeedSourceBad
	}

	var doc *feed.Document
	var err error
	if req.URL != "" {
		doc, err = s.fetcher.Fetch(ctx, req.URL)
	} else {
		doc, err = feed.Parse([]byte(req.Data))
	}
	if err != nil {
		return nil, err
	}

	result, err := s.importDocument(ctx, userID, doc, req.URL)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, EventShopUpdated, email,
		"Price list updated", fmt.Sprintf("Shop %s: %d listings imported", result.ShopName, result.Listings))
	return result, nil
}

// importDocument 全量替换导入：同一事务内删除商铺旧条目并写入新条目
func (s *PartnerService) importDocument(ctx context.Context, userID int64, doc *feed.Document, sourceURL string) (*dto.ImportResultVO, error) {
	lock := s.shopLock(userID, doc.Shop)
	lock.Lock()
	defer lock.Unlock()

	result := &dto.ImportResultVO{ShopName: doc.Shop}

	err := s.uow.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		shop, created, err := uow.Shops.FindOrCreate(ctx, userID, doc.Shop)
		if err != nil {
			return err
		}
		result.ShopID = shop.ID
		result.ShopCreated = created

		// 分类按外部 ID 覆盖，并挂到商铺名下
		for _, c := range doc.Categories {
			category, created, err := uow.Categories.Upsert(ctx, c.ID, c.Name)
			if err != nil {
				return err
			}
			if created {
				result.NewCategories++
			}
			if err := uow.Categories.AddShop(ctx, category.ID, shop.ID); err != nil {
				return err
			}
		}
		result.Categories = len(doc.Categories)

		// 全量替换：先清掉商铺现有在售条目
		removed, err := uow.ProductInfos.DeleteByShop(ctx, shop.ID)
		if err != nil {
			return err
		}
		result.RemovedListings = removed

		for _, g := range doc.Goods {
			product, created, err := uow.Products.FindOrCreate(ctx, g.Name, g.Category)
			if err != nil {
				return err
			}
			if created {
				result.NewProducts++
			}

			info := &model.ProductInfo{
				ExternalID: g.ID,
				ProductID:  product.ID,
				ShopID:     shop.ID,
				Name:       g.Name,
				Model:      g.Model,
				Quantity:   g.Quantity,
				Price:      g.Price,
				PriceRRC:   g.PriceRRC,
			}
			if err := uow.ProductInfos.Create(ctx, info); err != nil {
				return err
			}
			result.Listings++

			for name, value := range g.Parameters {
				parameter, created, err := uow.Parameters.FindOrCreate(ctx, name)
				if err != nil {
					return err
				}
				if created {
					result.NewParameters++
				}
				pp := &model.ProductParameter{
					ProductInfoID: info.ID,
					ParameterID:   parameter.ID,
					Value:         value,
				}
				if err := uow.Parameters.CreateProductParameter(ctx, pp); err != nil {
					return err
				}
			}
		}
		result.ImportedGoodRows = len(doc.Goods)

		// 记录最近一次导入的来源与概要
		summary, _ := json.Marshal(map[string]interface{}{
			"shop":        doc.Shop,
			"categories":  len(doc.Categories),
			"goods":       len(doc.Goods),
			"imported_at": time.Now().UTC().Format(time.RFC3339),
		})
		fields := map[string]interface{}{"last_feed": datatypes.JSON(summary)}
		if sourceURL != "" {
			fields["url"] = sourceURL
		}
		return uow.Shops.UpdateFields(ctx, shop.ID, fields)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("价目表导入完成",
		zap.Int64("shop_id", result.ShopID),
		zap.String("shop", result.ShopName),
		zap.Int("listings", result.Listings))
	return result, nil
}

// shopLock 取得 (用户, 商铺名) 对应的互斥锁
// 锁常驻不回收，条目数与合作方商铺总数同量级（每个合作方通常只有一个商铺）
func (s *PartnerService) shopLock(userID int64, shopName string) *sync.Mutex {
	key := fmt.Sprintf("%d:%s", userID, shopName)
	s.importMu.Lock()
	defer s.importMu.Unlock()
	if lock, ok := s.importing[key]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.importing[key] = lock
	return lock
}

// ==================== 接单状态 ====================

// GetStatus 查询合作方商铺的接单状态
func (s *PartnerService) GetStatus(ctx context.Context, userID int64) (*dto.ShopVO, error) {
	shop, err := s.shopRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return toShopVO(shop), nil
}

// SetStatus 切换合作方商铺的接单状态
func (s *PartnerService) SetStatus(ctx context.Context, userID int64, status bool) (*dto.ShopVO, error) {
	shop, err := s.shopRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}

	if err := s.shopRepo.UpdateFields(ctx, shop.ID, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	shop.Status = status
	return toShopVO(shop), nil
}

// ==================== 辅助 ====================

func toShopVO(shop *model.Shop) *dto.ShopVO {
	return &dto.ShopVO{
		ID:     shop.ID,
		Name:   shop.Name,
		URL:    shop.URL,
		Status: shop.Status,
	}
}
