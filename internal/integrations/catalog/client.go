package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// maxCatalogBytes ограничение на размер ответа сайта
const maxCatalogBytes = 1 << 20

// Client загружает каталог пакетов и опций с сайта.
// Если сайт недоступен, используется локальный файл каталога.
type Client struct {
	url        string
	file       string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога. url или file может быть пустым.
func NewClient(url, file string, timeout time.Duration, log Logger) *Client {
	return &Client{
		url:  url,
		file: file,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCatalog возвращает актуальный каталог.
// Идентификатор позиции - её название, как на сайте.
func (c *Client) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	switch {
	case c.url == "" && c.file == "":
		return nil, ErrNoSource
	case c.url == "":
		return c.loadFile()
	}

	payload, err := c.fetch(ctx)
	if err == nil {
		return toDomain(payload)
	}

	if c.file == "" {
		c.log.Error("GetCatalog: site unavailable and no fallback file: %v", err)
		return nil, err
	}

	c.log.Error("GetCatalog: site unavailable, falling back to %s: %v", c.file, err)
	return c.loadFile()
}

func (c *Client) fetch(ctx context.Context) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payload Payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCatalogBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &payload, nil
}

func (c *Client) loadFile() (*domain.Catalog, error) {
	raw, err := os.ReadFile(c.file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInternal, c.file, err)
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidCatalog, c.file, err)
	}

	return toDomain(&payload)
}

func toDomain(p *Payload) (*domain.Catalog, error) {
	if len(p.Packages) == 0 {
		return nil, fmt.Errorf("%w: no packages", ErrInvalidCatalog)
	}

	catalog := &domain.Catalog{
		Packages: make([]domain.Package, 0, len(p.Packages)),
		Addons:   make([]domain.Addon, 0, len(p.Addons)),
	}

	for _, item := range p.Packages {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Price < 0 {
			return nil, fmt.Errorf("%w: bad package %+v", ErrInvalidCatalog, item)
		}
		catalog.Packages = append(catalog.Packages, domain.Package{ID: name, Name: name, Price: item.Price})
	}

	for _, item := range p.Addons {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Price < 0 {
			return nil, fmt.Errorf("%w: bad addon %+v", ErrInvalidCatalog, item)
		}
		catalog.Addons = append(catalog.Addons, domain.Addon{ID: name, Name: name, Price: item.Price})
	}

	return catalog, nil
}
