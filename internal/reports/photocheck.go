package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/go-resty/resty/v2"
)

// PhotoChecker verifies a submitted photo url before it is accepted.
type PhotoChecker interface {
	Check(ctx context.Context, photoURL string) error
}

// RestyPhotoChecker HEADs the url: a dead link is rejected up front rather
// than discovered by a reviewer.
type RestyPhotoChecker struct {
	client *resty.Client
}

func NewPhotoChecker(timeout time.Duration) *RestyPhotoChecker {
	return &RestyPhotoChecker{
		client: resty.New().SetTimeout(timeout),
	}
}

func (c *RestyPhotoChecker) Check(ctx context.Context, photoURL string) error {
	resp, err := c.client.R().SetContext(ctx).Head(photoURL)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrPhotoUnavailable, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", models.ErrPhotoUnavailable, resp.StatusCode())
	}
	return nil
}
