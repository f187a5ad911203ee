package services

import (
	"errors"
	"time"

	"visitlog/internal/config"
	"visitlog/internal/models"

	"gorm.io/gorm"
)

var ErrCompanyNotFound = errors.New("company not found")

type VisitService struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewVisitService(cfg *config.Config, db *gorm.DB) *VisitService {
	return &VisitService{cfg: cfg, db: db}
}

// GetVisits returns visits under the configured scope, with company and
// owner preloaded, newest first.
func (s *VisitService) GetVisits(userID uint) ([]models.Visit, error) {
	query := s.db.Preload("Company").Preload("User").Order("date DESC")
	if s.cfg.Visits.Scope == "mine" {
		query = query.Where("user_id = ?", userID)
	}

	var visits []models.Visit
	if err := query.Find(&visits).Error; err != nil {
		return nil, err
	}

	for i := range visits {
		visits[i].User.PasswordHash = ""
	}

	return visits, nil
}

// GetCompanies returns all companies, ordered by name
func (s *VisitService) GetCompanies() ([]models.Company, error) {
	var companies []models.Company
	if err := s.db.Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// CreateVisit records a visit for the user. A blank report is stored as
// an empty string.
func (s *VisitService) CreateVisit(userID, companyID uint, date time.Time, report string) (*models.Visit, error) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	visit := &models.Visit{
		UserID:    userID,
		CompanyID: companyID,
		Date:      date,
		Report:    report,
	}
	if err := s.db.Create(visit).Error; err != nil {
		return nil, err
	}

	return visit, nil
}

// SeedCompanies creates the configured default companies if the table is
// empty
func (s *VisitService) SeedCompanies() error {
	var count int64
	s.db.Model(&models.Company{}).Count(&count)

	if count == 0 {
		for _, name := range s.cfg.Companies {
			if err := s.db.Create(&models.Company{Name: name}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
