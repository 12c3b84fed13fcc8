package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"konsol-admin/pkg/logger"
)

// FetchError menandakan kegagalan memuat sebuah collection dari data
// store. Error ini recoverable: view cukup menampilkan banner retry,
// proses tidak pernah mati karenanya.
type FetchError struct {
	Resource string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("fetch %s failed: status %d", e.Resource, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound melaporkan apakah err adalah FetchError dengan status 404.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Status == http.StatusNotFound
}

// Client adalah akses primitif ke REST collection store (list, get,
// create, update, delete). Tidak ada business logic di sini.
type Client struct {
	base  string
	httpc *http.Client
	cache *Cache
}

// NewClient membuat client untuk data store di baseURL. Trailing slash
// dibuang supaya path endpoint selalu tersambung dengan satu slash.
// Cache boleh nil; tanpa cache semua pembacaan langsung ke store.
func NewClient(baseURL string, cache *Cache) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{Timeout: 10 * time.Second},
		cache: cache,
	}
}

// endpoint menormalkan path agar selalu diawali tepat satu slash.
func (c *Client) endpoint(path string) string {
	return c.base + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Resource: path, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return &FetchError{Resource: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &FetchError{Resource: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Resource: path, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Resource: path, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &FetchError{Resource: path, Err: err}
	}
	return nil
}

// List memuat seluruh isi sebuah collection ke out (pointer ke slice).
// Response boleh berupa array polos ataupun wrapper {"data":[...]};
// bentuk lain dianggap collection kosong dengan warning, bukan error.
// Hasil sukses disimpan di cache per-resource sampai ada write.
func (c *Client) List(ctx context.Context, resource string, out any) error {
	if raw, ok := c.cache.Get(ctx, resource); ok {
		if err := decodeCollection(resource, raw, out); err == nil {
			return nil
		}
		// cache korup: buang dan baca ulang dari store
		c.cache.Invalidate(ctx, resource)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(resource), nil)
	if err != nil {
		return &FetchError{Resource: resource, Err: err}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &FetchError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Resource: resource, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Resource: resource, Err: err}
	}

	if err := decodeCollection(resource, raw, out); err != nil {
		return err
	}
	c.cache.Set(ctx, resource, raw)
	return nil
}

// Get mengambil satu record berdasarkan id.
func (c *Client) Get(ctx context.Context, resource, id string, out any) error {
	return c.do(ctx, http.MethodGet, resource+"/"+id, nil, out)
}

// Create menambahkan record baru. Cache collection terkait selalu
// di-invalidate setelah write supaya pembacaan berikutnya fresh.
func (c *Client) Create(ctx context.Context, resource string, body any, out any) error {
	if err := c.do(ctx, http.MethodPost, resource, body, out); err != nil {
		return err
	}
	c.cache.Invalidate(ctx, resource)
	return nil
}

// Update memperbarui record berdasarkan id (partial atau penuh).
func (c *Client) Update(ctx context.Context, resource, id string, body any, out any) error {
	if err := c.do(ctx, http.MethodPut, resource+"/"+id, body, out); err != nil {
		return err
	}
	c.cache.Invalidate(ctx, resource)
	return nil
}

// Delete menghapus record berdasarkan id.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	if err := c.do(ctx, http.MethodDelete, resource+"/"+id, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(ctx, resource)
	return nil
}

// decodeCollection menerima dua bentuk payload yang sama-sama beredar
// di upstream: array polos dan wrapper {"data":[...]}. Payload yang
// bukan keduanya di-coerce menjadi list kosong dengan warning; aggregate
// cukup melaporkan nol baris, tidak perlu gagal.
func decodeCollection(resource string, raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return &FetchError{Resource: resource, Err: err}
		}
		return nil
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err == nil && len(wrapper.Data) > 0 {
		inner := bytes.TrimSpace(wrapper.Data)
		if len(inner) > 0 && inner[0] == '[' {
			if err := json.Unmarshal(inner, out); err != nil {
				return &FetchError{Resource: resource, Err: err}
			}
			return nil
		}
	}

	logger.SystemLogger.Warn("Malformed collection payload, coercing to empty list",
		zap.String("resource", resource),
	)
	return nil
}
