package emailsvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
)

// ResolveConfig fetches the JSON document at base.ConfigURL, once, and returns `base`
// overridden by the fields it sets. Without a ConfigURL, `base` is returned as is.
// On failure `base` is returned with the error; the caller decides whether to go on with the defaults.
func ResolveConfig(ctx context.Context, client *http.Client, base core.EmailConfig) (core.EmailConfig, error) {
	if base.ConfigURL == "" {
		return base, nil
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.ConfigURL, nil)
	if err != nil {
		return base, errors.Wrap(err, "building email config request")
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return base, errors.Wrap(err, "fetching email config")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return base, errors.Errorf("fetching email config: status %d", res.StatusCode)
	}

	resolved := base // decoding only overrides the fields present in the document
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&resolved); err != nil {
		return base, errors.Wrap(err, "decoding email config")
	}
	resolved.APIKey, resolved.ConfigURL = base.APIKey, base.ConfigURL
	return resolved, nil
}
