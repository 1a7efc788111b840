package usecase

import (
	"context"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/internal/infrastructure/ratelimit"
	"campushub/internal/infrastructure/storage"
	"campushub/pkg/errors"
	"campushub/pkg/sanitize"
)

// ImageStore is the hosted image backend the listing usecases upload
// to and delete from.
type ImageStore interface {
	UploadImage(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
	DeleteByAssetID(ctx context.Context, assetID string) error
}

type MarketUseCase struct {
	marketRepo  repository.MarketRepository
	userRepo    repository.UserRepository
	imageStore  ImageStore
	rateLimiter *ratelimit.RateLimiter
}

func NewMarketUseCase(
	marketRepo repository.MarketRepository,
	userRepo repository.UserRepository,
	imageStore ImageStore,
	rateLimiter *ratelimit.RateLimiter,
) *MarketUseCase {
	return &MarketUseCase{
		marketRepo:  marketRepo,
		userRepo:    userRepo,
		imageStore:  imageStore,
		rateLimiter: rateLimiter,
	}
}

type CreateListingInput struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"required,min=10,max=1000"`
	Category    string  `json:"category" validate:"required,oneof=books electronics cycle other"`
	Price       float64 `json:"price" validate:"required,gte=1,lte=100000"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

func (uc *MarketUseCase) CreateListing(ctx context.Context, userID string, input CreateListingInput) (*entity.MarketItem, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_listing")
	if !allowed {
		log.Printf("CreateListing Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("You are creating listings too quickly", waitTime)
	}

	seller, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("CreateListing Error: Seller %s not found: %v", userID, err)
		return nil, err
	}

	item := &entity.MarketItem{
		SellerID:    userID,
		SellerName:  seller.DisplayName,
		Name:        sanitize.PlainText(input.Name),
		Description: sanitize.PlainText(input.Description),
		Category:    input.Category,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Status:      entity.MarketStatusAvailable,
	}

	if err := uc.marketRepo.Create(ctx, item); err != nil {
		log.Printf("CreateListing Error: %v", err)
		return nil, err
	}

	return item, nil
}

type ListListingsInput struct {
	Category string
	Status   string
	Limit    int
	Offset   int
}

func (uc *MarketUseCase) ListListings(ctx context.Context, input ListListingsInput) ([]*entity.MarketItem, int64, error) {
	filter := make(map[string]interface{})
	if input.Category != "" {
		filter["category"] = input.Category
	}
	if input.Status != "" {
		filter["status"] = input.Status
	}

	return uc.marketRepo.List(ctx, filter, input.Limit, input.Offset)
}

func (uc *MarketUseCase) GetListing(ctx context.Context, id string) (*entity.MarketItem, error) {
	return uc.marketRepo.GetByID(ctx, id)
}

func (uc *MarketUseCase) ListMyListings(ctx context.Context, userID string) ([]*entity.MarketItem, error) {
	return uc.marketRepo.ListBySeller(ctx, userID)
}

// MarkSold flips a listing to sold. Only the seller can do it.
func (uc *MarketUseCase) MarkSold(ctx context.Context, userID, itemID string) (*entity.MarketItem, error) {
	item, err := uc.marketRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.SellerID != userID {
		return nil, errors.Forbidden("Only the seller can mark a listing sold", nil)
	}

	if item.IsSold() {
		return item, nil
	}

	item.Status = entity.MarketStatusSold
	if err := uc.marketRepo.Update(ctx, item); err != nil {
		log.Printf("MarkSold Error: %v", err)
		return nil, err
	}

	return item, nil
}

func (uc *MarketUseCase) UploadImage(ctx context.Context, userID string, file io.Reader, contentType string) (string, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "upload_image")
	if !allowed {
		return "", errors.TooManyRequests("You are uploading images too quickly", waitTime)
	}

	url, err := uc.imageStore.UploadImage(ctx, file, contentType, storage.FolderMarketItems)
	if err != nil {
		log.Printf("UploadImage Error: %v", err)
		return "", errors.Internal("Failed to upload image", err)
	}

	return url, nil
}

// DeleteItem removes a listing and its hosted image. The argument
// check runs before any backend read; ownership is re-checked against
// the stored record, never trusted from the client. Record and image
// are deleted in parallel, and any failure surfaces as one generic
// internal error.
func (uc *MarketUseCase) DeleteItem(ctx context.Context, userID, itemID, imageURL string) error {
	if itemID == "" || imageURL == "" {
		return errors.BadRequest("Missing itemId or imageUrl", nil)
	}

	item, err := uc.marketRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.Forbidden("You are not authorized to delete this item", nil)
		}
		log.Printf("DeleteItem Error: failed to read item %s: %v", itemID, err)
		return errors.Internal("An error occurred while deleting the item", err)
	}

	if item.SellerID != userID {
		return errors.Forbidden("You are not authorized to delete this item", nil)
	}

	assetID := storage.AssetIDFromURL(imageURL, storage.FolderMarketItems)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return uc.marketRepo.Delete(gctx, itemID)
	})
	g.Go(func() error {
		return uc.imageStore.DeleteByAssetID(gctx, assetID)
	})

	if err := g.Wait(); err != nil {
		log.Printf("DeleteItem Error: deletion failed for item %s: %v", itemID, err)
		return errors.Internal("An error occurred while deleting the item", err)
	}

	return nil
}
