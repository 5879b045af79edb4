package entity

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func sampleCart() *Cart {
	mouse := &Item{ID: "i1", Name: "Wireless Mouse", Price: 4999}
	hub := &Item{ID: "i2", Name: "USB-C Hub", Price: 3999}
	return &Cart{
		ID:     "c1",
		UserID: "u1",
		Lines: []CartLine{
			{ID: "l1", CartID: "c1", ItemID: "i1", Quantity: 2, Item: mouse},
			{ID: "l2", CartID: "c1", ItemID: "i2", Quantity: 1, Item: hub},
		},
	}
}

func TestCartTotals(t *testing.T) {
	g := NewWithT(t)
	c := sampleCart()
	g.Expect(c.Total()).To(Equal(int64(2*4999 + 3999)))
	g.Expect(c.ItemCount()).To(Equal(3))
	g.Expect(c.IsEmpty()).To(BeFalse())

	l, ok := c.Line("l2")
	g.Expect(ok).To(BeTrue())
	g.Expect(l.Subtotal()).To(Equal(int64(3999)))

	c.Lines[1].Item = nil
	g.Expect(c.Total()).To(Equal(int64(2 * 4999)))

	var none *Cart
	g.Expect(none.IsEmpty()).To(BeTrue())
}

func TestNewOrderFromCartSnapshotsLines(t *testing.T) {
	g := NewWithT(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := sampleCart()

	o, err := NewOrderFromCart(c, "gift wrap", now)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(o.UserID).To(Equal("u1"))
	g.Expect(o.Status).To(Equal(OrderStatusConfirmed))
	g.Expect(o.Note).To(Equal("gift wrap"))
	g.Expect(o.TotalAmount).To(Equal(c.Total()))
	g.Expect(o.ItemCount()).To(Equal(3))
	g.Expect(o.CreatedAt).To(Equal(now))
	g.Expect(o.Lines).To(HaveLen(2))
	g.Expect(o.Lines[0].ItemName).To(Equal("Wireless Mouse"))
	g.Expect(o.Lines[0].Subtotal).To(Equal(int64(9998)))
	g.Expect(o.Lines[0].OrderID).To(Equal(o.ID))

	// later catalog changes do not reach the order
	c.Lines[0].Item.Price = 1
	g.Expect(o.Lines[0].ItemPrice).To(Equal(int64(4999)))
}

func TestNewOrderFromCartErrors(t *testing.T) {
	g := NewWithT(t)
	_, err := NewOrderFromCart(&Cart{ID: "c", UserID: "u"}, "", time.Now())
	g.Expect(err).To(MatchError(ErrCartEmpty))

	c := sampleCart()
	c.Lines[0].Item = nil
	_, err = NewOrderFromCart(c, "", time.Now())
	g.Expect(err).To(MatchError(ErrUnresolvedItem))
}

func TestOrderStatus(t *testing.T) {
	g := NewWithT(t)
	for _, s := range []string{"pending", "confirmed", "shipped", "delivered", "cancelled"} {
		st, err := ParseOrderStatus(s)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(string(st)).To(Equal(s))
	}
	_, err := ParseOrderStatus("Shipped")
	g.Expect(err).To(MatchError(ErrUnknownStatus))

	g.Expect((&Order{Status: OrderStatusPending}).Cancellable()).To(BeTrue())
	g.Expect((&Order{Status: OrderStatusConfirmed}).Cancellable()).To(BeTrue())
	g.Expect((&Order{Status: OrderStatusShipped}).Cancellable()).To(BeFalse())
	g.Expect((&Order{Status: OrderStatusCancelled}).Cancellable()).To(BeFalse())
}
