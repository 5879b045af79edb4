package seed_test

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/infrastructure/memory"
	"github.com/oksasatya/shopease-api/internal/seed"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

type countingIndex struct{ ids []string }

func (c *countingIndex) Index(_ context.Context, it *entity.Item) error {
	c.ids = append(c.ids, it.ID)
	return nil
}

func (c *countingIndex) Search(context.Context, string, int) ([]string, error) { return nil, nil }

func TestItemsSeedsOnce(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	items := memory.NewItemRepository(memory.NewStore())
	log := helpers.NewDiscardLogger()

	n, err := seed.Items(ctx, items, log)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(Equal(10))

	n, err = seed.Items(ctx, items, log)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(BeZero())

	_, total, _ := items.List(ctx, entity.ItemFilter{ActiveOnly: true, Limit: 100})
	g.Expect(total).To(Equal(10))

	idx := &countingIndex{}
	indexed, err := seed.Reindex(ctx, items, idx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(indexed).To(Equal(10))
	g.Expect(idx.ids).To(HaveLen(10))
}

func TestAdminUser(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	users := memory.NewUserRepository(memory.NewStore())
	log := helpers.NewDiscardLogger()

	u, err := seed.AdminUser(ctx, users, seed.Admin{}, log)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(u).To(BeNil())

	u, err = seed.AdminUser(ctx, users, seed.Admin{Username: "admin", Password: "admin12345"}, log)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(u.Role).To(Equal(entity.RoleAdmin))
	g.Expect(helpers.CompareHashAndPassword(u.Password, "admin12345")).To(BeTrue())

	again, err := seed.AdminUser(ctx, users, seed.Admin{Username: "admin", Password: "other"}, log)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(again.ID).To(Equal(u.ID))
}
