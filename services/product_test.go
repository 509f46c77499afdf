package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webshop/backend/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestProductCreate_StampsOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)

	product, err := svc.Create(ProductInput{
		Name:     "Desk Lamp",
		Category: "lighting",
		Price:    34.90,
		Quantity: 3,
	}, Actor{ID: alice.ID, Role: alice.Role})
	require.NoError(t, err)

	assert.Equal(t, alice.ID, product.UserID)
	assert.NotEmpty(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.False(t, product.UpdatedAt.IsZero())
}

func TestProductCreate_RequiresName(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)

	_, err := svc.Create(ProductInput{Category: "lighting"}, Actor{ID: alice.ID, Role: alice.Role})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductUpdate_MergesAndPreservesOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)
	actor := Actor{ID: alice.ID, Role: alice.Role}

	created, err := svc.Create(ProductInput{
		Name:     "Desk Lamp",
		Category: "lighting",
		Price:    34.90,
		Quantity: 3,
	}, actor)
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, ProductUpdate{
		Name:     strPtr("Floor Lamp"),
		Quantity: intPtr(5),
	}, actor)
	require.NoError(t, err)

	// Fields absent from the payload keep their stored values
	assert.Equal(t, "Floor Lamp", updated.Name)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, "lighting", updated.Category)
	assert.Equal(t, 34.90, updated.Price)

	// Owner and created-at survive; updated-at does not go backwards
	assert.Equal(t, alice.ID, updated.UserID)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestProductUpdate_NonOwnerDenied(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)
	bob := createUser(t, db, "bob", "pw12345", models.RoleUser)

	created, err := svc.Create(ProductInput{Name: "Desk Lamp"}, Actor{ID: alice.ID, Role: alice.Role})
	require.NoError(t, err)

	_, err = svc.Update(created.ID, ProductUpdate{Name: strPtr("Hijacked")}, Actor{ID: bob.ID, Role: bob.Role})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Record unchanged
	var stored models.Product
	require.NoError(t, db.Where("id = ?", created.ID).First(&stored).Error)
	assert.Equal(t, "Desk Lamp", stored.Name)
	assert.Equal(t, alice.ID, stored.UserID)
}

func TestProductUpdate_AdminOverride(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)
	admin := createUser(t, db, "root", "pw12345", models.RoleAdmin)

	created, err := svc.Create(ProductInput{Name: "Desk Lamp"}, Actor{ID: alice.ID, Role: alice.Role})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, ProductUpdate{Name: strPtr("Renamed")}, Actor{ID: admin.ID, Role: admin.Role})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	// Admin edits never take ownership
	assert.Equal(t, alice.ID, updated.UserID)
}

func TestProductAuthorize_RoleFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)
	admin := createUser(t, db, "root", "pw12345", models.RoleAdmin)

	created, err := svc.Create(ProductInput{Name: "Desk Lamp"}, Actor{ID: alice.ID, Role: alice.Role})
	require.NoError(t, err)

	// No role claim: the user record decides
	_, err = svc.Update(created.ID, ProductUpdate{Name: strPtr("Renamed")}, Actor{ID: admin.ID})
	require.NoError(t, err)

	// No role claim and no user record: denied
	_, err = svc.Update(created.ID, ProductUpdate{Name: strPtr("Ghost")}, Actor{ID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestProductDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)
	bob := createUser(t, db, "bob", "pw12345", models.RoleUser)
	actor := Actor{ID: alice.ID, Role: alice.Role}

	created, err := svc.Create(ProductInput{Name: "Desk Lamp"}, actor)
	require.NoError(t, err)

	// Existence is checked before ownership
	err = svc.Delete(uuid.NewString(), Actor{ID: bob.ID, Role: bob.Role})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete("not-a-uuid", actor)
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.Delete(created.ID, Actor{ID: bob.ID, Role: bob.Role})
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Delete(created.ID, actor))

	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductGet_ResolvesReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)
	acme := createManufacturer(t, db, "Acme")

	created, err := svc.Create(ProductInput{
		Name:         "Desk Lamp",
		Manufacturer: acme.ID,
	}, Actor{ID: alice.ID, Role: alice.Role})
	require.NoError(t, err)

	view, err := svc.Get(created.ID)
	require.NoError(t, err)

	summary, ok := view.Manufacturer.(ManufacturerSummary)
	require.True(t, ok, "manufacturer reference should resolve to a summary")
	assert.Equal(t, acme.ID, summary.ID)
	assert.Equal(t, "Acme", summary.Name)

	require.NotNil(t, view.Owner)
	assert.Equal(t, alice.ID, view.Owner.ID)
	assert.Equal(t, "alice", view.Owner.Username)
	assert.Equal(t, alice.ID, view.UserID)
}

func TestProductGet_LeavesUnresolvableReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, nil, true)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)
	actor := Actor{ID: alice.ID, Role: alice.Role}

	dangling := uuid.NewString()
	withDangling, err := svc.Create(ProductInput{Name: "A", Manufacturer: dangling}, actor)
	require.NoError(t, err)
	withRaw, err := svc.Create(ProductInput{Name: "B", Manufacturer: "handmade"}, actor)
	require.NoError(t, err)

	view, err := svc.Get(withDangling.ID)
	require.NoError(t, err)
	assert.Equal(t, dangling, view.Manufacturer)

	view, err = svc.Get(withRaw.ID)
	require.NoError(t, err)
	assert.Equal(t, "handmade", view.Manufacturer)
}

func TestProductList_OwnerVisibilityToggle(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", "pw12345", models.RoleUser)
	actor := Actor{ID: alice.ID, Role: alice.Role}

	exposing := NewProductService(db, nil, true)
	_, err := exposing.Create(ProductInput{Name: "Desk Lamp"}, actor)
	require.NoError(t, err)

	views, err := exposing.List()
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, alice.ID, views[0].UserID)
	require.NotNil(t, views[0].Owner)

	hiding := NewProductService(db, nil, false)
	views, err = hiding.List()
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Empty(t, views[0].UserID)
	assert.Nil(t, views[0].Owner)
}
