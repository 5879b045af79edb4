package templates

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/oksasatya/shopease-api/config"
)

func TestRenderOrderPlaced(t *testing.T) {
	g := NewWithT(t)
	cfg := &config.Config{CompanyName: "ShopEase", OrdersURL: "https://shop.example/orders"}
	data := NewOrderPlacedData(cfg, "alice", "alice@example.com",
		WithTime(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
		WithOrder("ord-1", "USD 139.97", "leave at door", 3, []OrderLine{
			{Name: "Wireless Mouse", Quantity: 2, Price: "USD 49.99", Subtotal: "USD 99.98"},
			{Name: "USB-C Hub", Quantity: 1, Price: "USD 39.99", Subtotal: "USD 39.99"},
		}),
	)

	subject, text, html, err := Render(OrderPlaced, data)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(subject).To(Equal("Your ShopEase order ord-1 is confirmed"))
	g.Expect(text).To(ContainSubstring("Wireless Mouse x2 @ USD 49.99 = USD 99.98"))
	g.Expect(text).To(ContainSubstring("Total: USD 139.97"))
	g.Expect(text).To(ContainSubstring("Note: leave at door"))
	g.Expect(text).To(ContainSubstring("https://shop.example/orders"))
	g.Expect(html).To(ContainSubstring("USB-C Hub"))
}

func TestRenderWelcome(t *testing.T) {
	g := NewWithT(t)
	data := NewWelcomeData(&config.Config{}, "bob", "bob@example.com")
	subject, text, _, err := Render(Welcome, data)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(subject).NotTo(BeEmpty())
	g.Expect(text).To(ContainSubstring("bob"))
	g.Expect(Known(Welcome)).To(BeTrue())
	g.Expect(Known("universal")).To(BeFalse())
}

type countingResolver struct {
	calls int
	geo   Geo
	err   error
}

func (r *countingResolver) Lookup(context.Context, string) (Geo, error) {
	r.calls++
	return r.geo, r.err
}

func TestCachingResolver(t *testing.T) {
	g := NewWithT(t)
	next := &countingResolver{geo: Geo{City: "Bandung", Country: "Indonesia"}}
	r := NewCachingResolver(next, time.Minute)

	for i := 0; i < 3; i++ {
		geo, err := r.Lookup(context.Background(), "8.8.8.8")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(FormatGeo(geo)).To(Equal("Bandung, Indonesia"))
	}
	g.Expect(next.calls).To(Equal(1))

	next.err = errors.New("down")
	_, err := r.Lookup(context.Background(), "1.1.1.1")
	g.Expect(err).To(HaveOccurred())
}

func TestIPAPIResolverSkipsPrivateAddresses(t *testing.T) {
	g := NewWithT(t)
	for _, ip := range []string{"", "127.0.0.1", "10.1.2.3", "192.168.0.4", "::1", "nope"} {
		_, err := IPAPIResolver{}.Lookup(context.Background(), ip)
		g.Expect(err).To(MatchError(ErrNoPublicIP), ip)
	}
}
