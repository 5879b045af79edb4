package notify

import (
	"context"
	"time"

	"github.com/oksasatya/shopease-api/config"
	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/pkg/helpers"
	"github.com/oksasatya/shopease-api/pkg/mailer"
	mailtpl "github.com/oksasatya/shopease-api/pkg/mailer/templates"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

const publishTimeout = 2 * time.Second

// EmailNotifier turns domain events into queued email jobs for the
// email worker.
type EmailNotifier struct {
	pub Publisher
	cfg *config.Config
}

func NewEmailNotifier(pub Publisher, cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{pub: pub, cfg: cfg}
}

func (n *EmailNotifier) UserRegistered(ctx context.Context, u *entity.User, ip string) error {
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data: mailtpl.NewWelcomeData(n.cfg, u.Username, u.Email,
			mailtpl.WithIP(ip),
			mailtpl.WithTime(u.CreatedAt),
		),
	}
	return n.publish(ctx, job)
}

func (n *EmailNotifier) OrderPlaced(ctx context.Context, u *entity.User, o *entity.Order) error {
	lines := make([]mailtpl.OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, mailtpl.OrderLine{
			Name:     l.ItemName,
			Quantity: l.Quantity,
			Price:    helpers.FormatMoney(l.ItemPrice, n.cfg.Currency),
			Subtotal: helpers.FormatMoney(l.Subtotal, n.cfg.Currency),
		})
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.OrderPlaced,
		Data: mailtpl.NewOrderPlacedData(n.cfg, u.Username, u.Email,
			mailtpl.WithTime(o.CreatedAt),
			mailtpl.WithOrder(o.ID, helpers.FormatMoney(o.TotalAmount, n.cfg.Currency), o.Note, o.ItemCount(), lines),
		),
	}
	return n.publish(ctx, job)
}

// publish ignores cancellation of the request context.
func (n *EmailNotifier) publish(ctx context.Context, job mailer.EmailJob) error {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	return n.pub.PublishJSON(c, job)
}
