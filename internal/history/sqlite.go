package history

import (
	"encoding/json"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/truenorth-nav/truenorth/internal/geo"
	"github.com/truenorth-nav/truenorth/internal/model"
)

// DestinationRecord is the GORM row for one stored destination. Rank 0 is the
// most recent entry.
type DestinationRecord struct {
	ID          uint   `gorm:"primarykey"`
	Rank        int    `gorm:"index"`
	Address     string `gorm:"uniqueIndex;size:255"`
	DisplayName string `gorm:"size:127"`
	Latitude    float64
	Longitude   float64
	// Location is the destination point in EPSG 3857, WKB encoded.
	Location []byte         `gorm:"type:blob"`
	Raw      datatypes.JSON `gorm:"type:jsonb"`
}

// Sqlite persists the destination list in a local SQLite file.
type Sqlite struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewSqlite opens (or creates) the SQLite file at path and migrates the schema.
// An empty path uses an in-memory database.
func NewSqlite(path string, log zerolog.Logger) (*Sqlite, error) {
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history DB: %w", err)
	}

	if err := db.AutoMigrate(&DestinationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	log.Info().Str("path", path).Msg("Using SQLite history store")
	return &Sqlite{db: db, log: log}, nil
}

func (s *Sqlite) Load() ([]model.Destination, error) {
	var records []DestinationRecord
	if err := s.db.Order("rank asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	destinations := make([]model.Destination, 0, len(records))
	for _, rec := range records {
		destinations = append(destinations, model.Destination{
			Address:     rec.Address,
			DisplayName: rec.DisplayName,
			Coordinate: model.Coordinate{
				Latitude:  rec.Latitude,
				Longitude: rec.Longitude,
			},
		})
	}
	return destinations, nil
}

func (s *Sqlite) Save(destinations []model.Destination) error {
	records := make([]DestinationRecord, 0, len(destinations))
	for i, dest := range destinations {
		records = append(records, toRecord(i, dest))
	}

	// The list is tiny and fully replaced on every mutation, so rewrite the
	// whole table instead of diffing.
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&DestinationRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		return nil
	})
}

func (s *Sqlite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(rank int, dest model.Destination) DestinationRecord {
	rec := DestinationRecord{
		Rank:        rank,
		Address:     dest.Address,
		DisplayName: dest.DisplayName,
		Latitude:    dest.Coordinate.Latitude,
		Longitude:   dest.Coordinate.Longitude,
	}

	rec.Location = geo.WKB3857(dest.Coordinate)
	if raw, err := json.Marshal(dest); err == nil {
		rec.Raw = datatypes.JSON(raw)
	}
	return rec
}
