package inbound

import (
	"context"

	"github.com/naghmatea/site/internal/customtea/usecase"
)

type uc interface {
	Submit(ctx context.Context, in usecase.SubmitInput) (*usecase.SubmitOutput, error)
}
