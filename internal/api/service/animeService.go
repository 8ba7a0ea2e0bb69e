package service

import (
	"context"
	"errors"

	"animehub/internal/api/dto"
	"animehub/internal/api/models"
	"animehub/internal/api/repository"

	"gorm.io/gorm"
)

var ErrAnimeNotFound = errors.New("anime not found")

type AnimeService interface {
	List(ctx context.Context, page, pageSize int) (*dto.PaginatedAnimeResponse, error)
	Get(ctx context.Context, id int64) (*dto.AnimeResponse, error)
	Search(ctx context.Context, query string) ([]dto.AnimeResponse, error)
	Create(ctx context.Context, req *dto.CreateAnimeDTO) (*dto.AnimeResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateAnimeDTO) (*dto.AnimeResponse, error)
	Delete(ctx context.Context, id int64) error
}

type animeService struct {
	animeRepo *repository.AnimeRepo
}

func NewAnimeService(animeRepo *repository.AnimeRepo) AnimeService {
	return &animeService{animeRepo: animeRepo}
}

func (s *animeService) List(ctx context.Context, page, pageSize int) (*dto.PaginatedAnimeResponse, error) {
	list, total, err := s.animeRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	data := make([]dto.AnimeResponse, 0, len(list))
	for i := range list {
		data = append(data, dto.FromModelToAnimeResponse(&list[i]))
	}

	return &dto.PaginatedAnimeResponse{
		Data:       data,
		Pagination: dto.NewPagination(int(total), page, pageSize),
	}, nil
}

func (s *animeService) Get(ctx context.Context, id int64) (*dto.AnimeResponse, error) {
	a, err := s.animeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimeNotFound
		}
		return nil, err
	}
	resp := dto.FromModelToAnimeResponse(a)
	return &resp, nil
}

func (s *animeService) Search(ctx context.Context, query string) ([]dto.AnimeResponse, error) {
	list, err := s.animeRepo.SearchByTitle(ctx, query)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AnimeResponse, 0, len(list))
	for i := range list {
		data = append(data, dto.FromModelToAnimeResponse(&list[i]))
	}
	return data, nil
}

func (s *animeService) Create(ctx context.Context, req *dto.CreateAnimeDTO) (*dto.AnimeResponse, error) {
	a := &models.Anime{
		Title:       req.Title,
		AltTitle:    req.AltTitle,
		Genre:       req.Genre,
		Year:        req.Year,
		Episodes:    req.Episodes,
		Status:      req.Status,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := s.animeRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	resp := dto.FromModelToAnimeResponse(a)
	return &resp, nil
}

func (s *animeService) Update(ctx context.Context, id int64, req *dto.UpdateAnimeDTO) (*dto.AnimeResponse, error) {
	a, err := s.animeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimeNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.AltTitle != nil {
		a.AltTitle = req.AltTitle
	}
	if req.Genre != nil {
		a.Genre = *req.Genre
	}
	if req.Year != nil {
		a.Year = req.Year
	}
	if req.Episodes != nil {
		a.Episodes = req.Episodes
	}
	if req.Status != nil {
		a.Status = req.Status
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.ImageURL != nil {
		a.ImageURL = req.ImageURL
	}

	if err := s.animeRepo.Update(ctx, id, a); err != nil {
		return nil, err
	}
	resp := dto.FromModelToAnimeResponse(a)
	return &resp, nil
}

func (s *animeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.animeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnimeNotFound
		}
		return err
	}
	return s.animeRepo.Delete(ctx, id)
}
