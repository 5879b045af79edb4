package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/oksasatya/shopease-api/config"
	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/pkg/mailer"
	mailtpl "github.com/oksasatya/shopease-api/pkg/mailer/templates"
)

type capturePublisher struct {
	jobs   []mailer.EmailJob
	ctxErr error
	err    error
}

func (p *capturePublisher) PublishJSON(ctx context.Context, body any) error {
	p.ctxErr = ctx.Err()
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return p.err
}

func testConfig() *config.Config {
	return &config.Config{AppName: "ShopEase", CompanyName: "ShopEase", Currency: "USD"}
}

func TestOrderPlacedJob(t *testing.T) {
	g := NewWithT(t)
	pub := &capturePublisher{}
	n := NewEmailNotifier(pub, testConfig())

	placed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	u := &entity.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	o := &entity.Order{
		ID:          "ord-1",
		UserID:      "u1",
		TotalAmount: 12497,
		Note:        "leave at door",
		CreatedAt:   placed,
		Lines: []entity.OrderLine{
			{ItemName: "Wireless Mouse", ItemPrice: 4999, Quantity: 2, Subtotal: 9998},
			{ItemName: "USB-C Hub", ItemPrice: 2499, Quantity: 1, Subtotal: 2499},
		},
	}

	// the request context may already be gone when the order commits
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g.Expect(n.OrderPlaced(ctx, u, o)).To(Succeed())
	g.Expect(pub.ctxErr).NotTo(HaveOccurred())

	g.Expect(pub.jobs).To(HaveLen(1))
	job := pub.jobs[0]
	g.Expect(job.To).To(Equal("alice@example.com"))
	g.Expect(job.Template).To(Equal(mailtpl.OrderPlaced))
	g.Expect(job.Data).To(HaveKeyWithValue("OrderID", "ord-1"))
	g.Expect(job.Data).To(HaveKeyWithValue("OrderTotal", "USD 124.97"))
	g.Expect(job.Data).To(HaveKeyWithValue("OrderNote", "leave at door"))
	g.Expect(job.Data).To(HaveKeyWithValue("ItemCount", BeNumerically("==", 3)))
	g.Expect(job.Data).To(HaveKeyWithValue("Name", "alice"))

	lines, ok := job.Data["Lines"].([]any)
	g.Expect(ok).To(BeTrue())
	g.Expect(lines).To(HaveLen(2))
	g.Expect(lines[0]).To(And(
		HaveKeyWithValue("Name", "Wireless Mouse"),
		HaveKeyWithValue("Price", "USD 49.99"),
		HaveKeyWithValue("Subtotal", "USD 99.98"),
		HaveKeyWithValue("Quantity", BeNumerically("==", 2)),
	))

	subject, text, _, err := mailtpl.Render(job.Template, job.Data)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(subject).To(ContainSubstring("ord-1"))
	g.Expect(text).To(ContainSubstring("USB-C Hub x1 @ USD 24.99 = USD 24.99"))
}

func TestUserRegisteredJob(t *testing.T) {
	g := NewWithT(t)
	pub := &capturePublisher{}
	n := NewEmailNotifier(pub, testConfig())

	u := &entity.User{ID: "u2", Username: "bob", Email: "bob@example.com", CreatedAt: time.Now()}
	g.Expect(n.UserRegistered(context.Background(), u, "203.0.113.7")).To(Succeed())

	g.Expect(pub.jobs).To(HaveLen(1))
	job := pub.jobs[0]
	g.Expect(job.Template).To(Equal(mailtpl.Welcome))
	g.Expect(job.To).To(Equal("bob@example.com"))
	g.Expect(job.Data).To(HaveKeyWithValue("IP", "203.0.113.7"))
	g.Expect(job.Data).To(HaveKeyWithValue("RecipientEmail", "bob@example.com"))
}

func TestPublishErrorsSurface(t *testing.T) {
	g := NewWithT(t)
	broker := errors.New("channel closed")
	n := NewEmailNotifier(&capturePublisher{err: broker}, testConfig())
	err := n.UserRegistered(context.Background(), &entity.User{Username: "carol", Email: "c@example.com"}, "")
	g.Expect(err).To(MatchError(broker))
}
