package waste

import (
	"context"
	"errors"

	interf "github.com/Anit-Biswas/Waste-management-website/internal/interfaces"
	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
)

// Publishers рассылает событие всем получателям, ошибки объединяются
type Publishers []interf.EventPublisher

func (p Publishers) Publish(ctx context.Context, event model.Event) error {
	var errs []error
	for _, pub := range p {
		if pub == nil {
			continue
		}
		if err := pub.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
