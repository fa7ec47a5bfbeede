package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/config"
	"github.com/claudemirLima/changeApp/internal/models"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// ProductClient fetches product and kingdom attributes from the
// manager-product API.
type ProductClient interface {
	GetProductInfo(ctx context.Context, productID int64) (*models.ProductInfo, error)
	GetKingdomInfo(ctx context.Context, kingdomID int64) (*models.KingdomInfo, error)
}

type productClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewProductClient(cfg config.ProductAPIConfig, logger *logrus.Logger) ProductClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &productClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *productClient) GetProductInfo(ctx context.Context, productID int64) (*models.ProductInfo, error) {
	url := fmt.Sprintf("%s/api/v1/products/%d", c.baseURL, productID)

	var product models.ProductInfo
	if err := c.getJSON(ctx, url, &product); err != nil {
		if err == errNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}

	c.logger.Debugf("Product %d found: demand=%s quality=%s",
		productID, product.DemandQuantifier, product.QualityQualifier)
	return &product, nil
}

func (c *productClient) GetKingdomInfo(ctx context.Context, kingdomID int64) (*models.KingdomInfo, error) {
	url := fmt.Sprintf("%s/api/v1/kingdoms/%d", c.baseURL, kingdomID)

	var kingdom models.KingdomInfo
	if err := c.getJSON(ctx, url, &kingdom); err != nil {
		if err == errNotFound {
			return nil, apperrors.ErrKingdomNotFound
		}
		return nil, fmt.Errorf("failed to fetch kingdom %d: %w", kingdomID, err)
	}

	c.logger.Debugf("Kingdom %d found: quality=%s owner=%v",
		kingdomID, kingdom.QualityRate, kingdom.IsOwner)
	return &kingdom, nil
}

var errNotFound = fmt.Errorf("resource not found")

func (c *productClient) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
