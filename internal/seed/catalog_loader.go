package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"retailpos/m/domain"
)

// Catalog receives the parsed rows; store.CatalogRepo satisfies it.
type Catalog interface {
	InsertMissing(ctx context.Context, products []domain.Product) (int64, error)
}

// LoadCatalog ingests the product CSV, ignoring codes already in the catalog.
// Columns: code, description, brand, family, price1, price2, price3, weight, volume.
// A missing file is not an error; the catalog is then left as is.
func LoadCatalog(ctx context.Context, catalog Catalog, csvPath string, logger *zap.Logger) (int64, error) {
	file, err := os.Open(csvPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("no product catalog to seed", zap.String("path", csvPath))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open product catalog %s: %w", csvPath, err)
	}
	defer file.Close()

	products, err := parseCatalog(file, logger)
	if err != nil {
		return 0, err
	}
	added, err := catalog.InsertMissing(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("seed product catalog: %w", err)
	}
	logger.Info("seeded product catalog", zap.Int64("rows", added), zap.Int("read", len(products)))
	return added, nil
}

func parseCatalog(r io.Reader, logger *zap.Logger) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read product header: %w", err)
	}

	var products []domain.Product
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("unable to read product row", zap.Error(err))
			continue
		}
		if len(record) < 9 {
			continue
		}
		p, err := productFromRecord(record)
		if err != nil {
			logger.Warn("skipping product row", zap.String("code", record[0]), zap.Error(err))
			continue
		}
		if p.Code == "" || p.Description == "" {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func productFromRecord(record []string) (domain.Product, error) {
	p := domain.Product{
		Code:        strings.TrimSpace(record[0]),
		Description: strings.TrimSpace(record[1]),
		Brand:       strings.TrimSpace(record[2]),
		Family:      strings.TrimSpace(record[3]),
	}
	amounts := []*decimal.Decimal{&p.Price1, &p.Price2, &p.Price3, &p.Weight, &p.Volume}
	for i, dst := range amounts {
		raw := strings.TrimSpace(record[4+i])
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return p, fmt.Errorf("column %d: %w", 5+i, err)
		}
		*dst = d
	}
	return p, nil
}
