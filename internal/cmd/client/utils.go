package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/LabsCrypt/flowfi/internal/authz"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// signRequest attaches X-Flowfi-Principal/X-Flowfi-Signature headers when
// FLOWFI_PRINCIPAL and FLOWFI_SECRET (hex) are set.
func signRequest(req *http.Request, body []byte) error {
	principal := os.Getenv("FLOWFI_PRINCIPAL")
	if principal == "" {
		return nil
	}
	secret, err := hex.DecodeString(os.Getenv("FLOWFI_SECRET"))
	if err != nil {
		return fmt.Errorf("FLOWFI_SECRET is not hex: %w", err)
	}
	req.Header.Set("X-Flowfi-Principal", principal)
	req.Header.Set("X-Flowfi-Signature", hex.EncodeToString(authz.Sign(secret, body)))
	return nil
}

// postJSON posts v to path and decodes the JSON response into out (when
// non-nil). Non-2xx responses become errors carrying the server's message.
func postJSON(ctx context.Context, baseURL BaseURLFunc, path string, v any, out any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL()+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := signRequest(req, body); err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// getJSON fetches path and decodes the JSON response into out.
func getJSON(ctx context.Context, baseURL BaseURLFunc, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL()+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
