package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/linemk/agri-market/internal/clients/marketplace"
	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/linemk/agri-market/internal/normalize"
)

type CatalogAPI interface {
	Categories(ctx context.Context) ([]models.Category, error)
	WasteTypes(ctx context.Context) ([]models.WasteType, error)
	GetWasteType(ctx context.Context, id int64) (*models.WasteType, error)
	WasteTypesByCategory(ctx context.Context, categoryID int64) ([]models.WasteType, error)
	Documents(ctx context.Context, wasteType int64) ([]models.ResourceDocument, error)
	Listings(ctx context.Context, search string, wasteType int64) ([]*models.Listing, error)
	ActiveListings(ctx context.Context) ([]*models.Listing, error)
	ListingsByCountry(ctx context.Context, country string) ([]*models.Listing, error)
	MyListings(ctx context.Context) ([]*models.Listing, error)
	Reviews(ctx context.Context, listingID int64) ([]models.Review, error)
	CreateReview(ctx context.Context, req marketplace.CreateReviewRequest) (*models.Review, error)
	CreateListing(ctx context.Context, req models.ListingRequest) (*models.Listing, error)
	UpdateListing(ctx context.Context, id int64, patch models.ListingPatch) (*models.Listing, error)
	DeleteListing(ctx context.Context, id int64) error
}

// ListingFilter - фильтры списка объявлений. Поля взаимоисключающие,
// приоритет: Mine, Country, Active, затем общий список.
type ListingFilter struct {
	Mine      bool
	Active    bool
	Country   string
	Search    string
	WasteType int64
}

// ReviewSummary - отзывы объявления со средней оценкой.
type ReviewSummary struct {
	Reviews []models.Review `json:"reviews"`
	Count   int             `json:"count"`
	Average float64         `json:"average"`
}

type CreateReviewRequest struct {
	ListingID int64  `json:"listing_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type CatalogService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	WasteTypes(ctx context.Context, categoryID int64) ([]models.WasteType, error)
	WasteType(ctx context.Context, id int64) (*models.WasteType, error)
	Documents(ctx context.Context, wasteType int64) ([]models.ResourceDocument, error)
	Listings(ctx context.Context, f ListingFilter) ([]*models.Listing, error)
	Listing(ctx context.Context, id int64) (*models.Listing, error)
	ListingReviews(ctx context.Context, listingID int64) (*ReviewSummary, error)
	CreateReview(ctx context.Context, req CreateReviewRequest) (*models.Review, error)
	UserReviews(ctx context.Context, userID int64) (*ReviewSummary, error)
	CreateListing(ctx context.Context, req models.ListingRequest) (*models.Listing, error)
	UpdateListing(ctx context.Context, id int64, patch models.ListingPatch) (*models.Listing, error)
	DeleteListing(ctx context.Context, id int64) error
}

type catalogService struct {
	log      *slog.Logger
	api      CatalogAPI
	listings ListingSource
}

func NewCatalogService(log *slog.Logger, api CatalogAPI, listings ListingSource) CatalogService {
	return &catalogService{log: log, api: api, listings: listings}
}

func (s *catalogService) Categories(ctx context.Context) ([]models.Category, error) {
	const op = "service.CatalogService.Categories"

	out, err := s.api.Categories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// WasteTypes - все типы или типы категории, если categoryID > 0.
func (s *catalogService) WasteTypes(ctx context.Context, categoryID int64) ([]models.WasteType, error) {
	const op = "service.CatalogService.WasteTypes"

	var (
		out []models.WasteType
		err error
	)
	if categoryID > 0 {
		out, err = s.api.WasteTypesByCategory(ctx, categoryID)
	} else {
		out, err = s.api.WasteTypes(ctx)
	}
	if err != nil {
		s.log.Error("failed to list waste types", slog.String("op", op), slog.Int64("categoryID", categoryID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *catalogService) WasteType(ctx context.Context, id int64) (*models.WasteType, error) {
	const op = "service.CatalogService.WasteType"

	w, err := s.api.GetWasteType(ctx, id)
	if err != nil {
		s.log.Error("failed to get waste type", slog.String("op", op), slog.Int64("id", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

func (s *catalogService) Documents(ctx context.Context, wasteType int64) ([]models.ResourceDocument, error) {
	const op = "service.CatalogService.Documents"

	out, err := s.api.Documents(ctx, wasteType)
	if err != nil {
		s.log.Error("failed to list documents", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *catalogService) Listings(ctx context.Context, f ListingFilter) ([]*models.Listing, error) {
	const op = "service.CatalogService.Listings"

	var (
		raw []*models.Listing
		err error
	)
	switch {
	case f.Mine:
		raw, err = s.api.MyListings(ctx)
	case f.Country != "":
		raw, err = s.api.ListingsByCountry(ctx, f.Country)
	case f.Active:
		raw, err = s.api.ActiveListings(ctx)
	default:
		raw, err = s.api.Listings(ctx, f.Search, f.WasteType)
	}
	if err != nil {
		s.log.Error("failed to list listings", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return normalize.Listings(raw), nil
}

func (s *catalogService) Listing(ctx context.Context, id int64) (*models.Listing, error) {
	const op = "service.CatalogService.Listing"

	l, err := s.listings.Load(ctx, id)
	if err != nil {
		s.log.Error("failed to get listing", slog.String("op", op), slog.Int64("listingID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, _ := normalize.Listing(l)
	return out, nil
}

// ListingReviews - отзывы объявления, новые первыми.
func (s *catalogService) ListingReviews(ctx context.Context, listingID int64) (*ReviewSummary, error) {
	const op = "service.CatalogService.ListingReviews"

	reviews, err := s.api.Reviews(ctx, listingID)
	if err != nil {
		s.log.Error("failed to list reviews", slog.String("op", op), slog.Int64("listingID", listingID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return summarize(reviews), nil
}

func summarize(reviews []models.Review) *ReviewSummary {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	sum := &ReviewSummary{Reviews: reviews, Count: len(reviews)}
	if sum.Reviews == nil {
		sum.Reviews = []models.Review{}
	}
	if len(reviews) == 0 {
		return sum
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	sum.Average = float64(total) / float64(len(reviews))
	return sum
}

func (s *catalogService) CreateReview(ctx context.Context, req CreateReviewRequest) (*models.Review, error) {
	const op = "service.CatalogService.CreateReview"
	logger := s.log.With(slog.String("op", op), slog.Int64("listingID", req.ListingID))

	if err := validateStruct(req); err != nil {
		logger.Warn("invalid review", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r, err := s.api.CreateReview(ctx, marketplace.CreateReviewRequest{
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		logger.Error("failed to create review", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("review created", slog.Int64("reviewID", r.ID))
	return r, nil
}

// UserReviews - отзывы на объявления продавца. Upstream не фильтрует отзывы
// по пользователю, поэтому отзывы и объявления читаются параллельно
// и сопоставляются по listing_id.
func (s *catalogService) UserReviews(ctx context.Context, userID int64) (*ReviewSummary, error) {
	const op = "service.CatalogService.UserReviews"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	var (
		reviews  []models.Review
		listings []*models.Listing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = s.api.Reviews(gctx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		listings, err = s.api.Listings(gctx, "", 0)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("failed to list user reviews", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	owned := make(map[int64]struct{})
	for _, l := range listings {
		if l == nil {
			continue
		}
		if sellerID, ok := l.Seller.ID(); ok && sellerID == userID {
			owned[l.ID] = struct{}{}
		}
	}

	out := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := owned[r.ListingID]; ok {
			out = append(out, r)
		}
	}
	return summarize(out), nil
}

func (s *catalogService) CreateListing(ctx context.Context, req models.ListingRequest) (*models.Listing, error) {
	const op = "service.CatalogService.CreateListing"
	logger := s.log.With(slog.String("op", op))

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if err := validateStruct(req); err != nil {
		logger.Warn("invalid listing", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l, err := s.api.CreateListing(ctx, req)
	if err != nil {
		logger.Error("failed to create listing", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("listing created", slog.Int64("listingID", l.ID))
	out, _ := normalize.Listing(l)
	return out, nil
}

// UpdateListing правит объявление и сбрасывает его из кэша.
func (s *catalogService) UpdateListing(ctx context.Context, id int64, patch models.ListingPatch) (*models.Listing, error) {
	const op = "service.CatalogService.UpdateListing"
	logger := s.log.With(slog.String("op", op), slog.Int64("listingID", id))

	if patch.IsEmpty() {
		logger.Warn("empty listing patch")
		return nil, fmt.Errorf("%s: %w", op, &ValidationError{Msg: "nothing to update"})
	}
	if err := validateStruct(patch); err != nil {
		logger.Warn("invalid listing patch", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l, err := s.api.UpdateListing(ctx, id, patch)
	if err != nil {
		logger.Error("failed to update listing", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.listings.Invalidate(ctx, id)

	logger.Info("listing updated")
	out, _ := normalize.Listing(l)
	return out, nil
}

// DeleteListing удаляет объявление и сбрасывает его из кэша.
func (s *catalogService) DeleteListing(ctx context.Context, id int64) error {
	const op = "service.CatalogService.DeleteListing"
	logger := s.log.With(slog.String("op", op), slog.Int64("listingID", id))

	if err := s.api.DeleteListing(ctx, id); err != nil {
		logger.Error("failed to delete listing", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.listings.Invalidate(ctx, id)

	logger.Info("listing deleted")
	return nil
}
