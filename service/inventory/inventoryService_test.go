package inventorysvc_test

import (
	"context"
	"sync"
	"testing"

	"bookinventory/model"
	inventorysvc "bookinventory/service/inventory"
)

type repoMock struct {
	createFn    func(ctx context.Context, b *model.Book) error
	byIDFn      func(ctx context.Context, id int64) (*model.Book, error)
	listFn      func(ctx context.Context) ([]model.Book, error)
	updateFn    func(ctx context.Context, id int64, p inventorysvc.Patch) (*model.Book, error)
	deleteFn    func(ctx context.Context, id int64) (bool, error)
	checkoutFn  func(ctx context.Context, bookID, userID int64) (bool, error)
	returnFn    func(ctx context.Context, bookID int64) (bool, error)
	checkoutsFn func(ctx context.Context, bookID int64) ([]model.BookCheckout, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) List(ctx context.Context) ([]model.Book, error) { return m.listFn(ctx) }
func (m *repoMock) Update(ctx context.Context, id int64, p inventorysvc.Patch) (*model.Book, error) {
	return m.updateFn(ctx, id, p)
}
func (m *repoMock) Delete(ctx context.Context, id int64) (bool, error) { return m.deleteFn(ctx, id) }
func (m *repoMock) CheckoutOne(ctx context.Context, bookID, userID int64) (bool, error) {
	return m.checkoutFn(ctx, bookID, userID)
}
func (m *repoMock) ReturnOne(ctx context.Context, bookID int64) (bool, error) {
	return m.returnFn(ctx, bookID)
}
func (m *repoMock) Checkouts(ctx context.Context, bookID int64) ([]model.BookCheckout, error) {
	return m.checkoutsFn(ctx, bookID)
}

func user(role model.AccountType) *model.User {
	return &model.User{ID: 7, Email: "u@example.com", AccountType: role, IsActive: true}
}

func TestCreate_Validation(t *testing.T) {
	s := inventorysvc.New(&repoMock{})
	ctx := context.Background()
	actor := user(model.AccountGeneralUser)

	if _, err := s.Create(ctx, actor, inventorysvc.CreateInput{ISBN: "", Title: "t"}); inventorysvc.Code(err) != inventorysvc.ErrBadInput {
		t.Fatalf("empty isbn: got %v", err)
	}
	if _, err := s.Create(ctx, actor, inventorysvc.CreateInput{ISBN: "12345678901234"}); inventorysvc.Code(err) != inventorysvc.ErrBadInput {
		t.Fatalf("long isbn: got %v", err)
	}
	if _, err := s.Create(ctx, actor, inventorysvc.CreateInput{ISBN: "123", AvailableCopies: -1}); inventorysvc.Code(err) != inventorysvc.ErrBadInput {
		t.Fatalf("negative copies: got %v", err)
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			b.ID = 42
			return nil
		},
	}
	m.byIDFn = func(ctx context.Context, id int64) (*model.Book, error) {
		if id != 42 {
			return nil, nil
		}
		return &model.Book{ID: 42, ISBN: "9781234567", Title: "Go", Author: "Pike", AvailableCopies: 3, OwnerID: 7}, nil
	}
	s := inventorysvc.New(m)
	ctx := context.Background()

	b, err := s.Create(ctx, user(model.AccountGeneralUser), inventorysvc.CreateInput{
		ISBN: "9781234567", Title: "Go", Author: "Pike", AvailableCopies: 3,
	})
	if err != nil || b.ID != 42 {
		t.Fatalf("create: got %+v %v", b, err)
	}
	got, err := s.Get(ctx, b.ID)
	if err != nil || got.AvailableCopies != 3 || got.ISBN != "9781234567" {
		t.Fatalf("get after create: got %+v %v", got, err)
	}
}

func TestUpdate_EmptyPatchIsIdentity(t *testing.T) {
	orig := model.Book{ID: 1, ISBN: "123", Title: "a", Author: "b", AvailableCopies: 2, OwnerID: 7}
	m := &repoMock{
		updateFn: func(ctx context.Context, id int64, p inventorysvc.Patch) (*model.Book, error) {
			if !p.Empty() {
				t.Fatal("expected empty patch to pass through unchanged")
			}
			cp := orig
			return &cp, nil
		},
	}
	s := inventorysvc.New(m)

	got, err := s.Update(context.Background(), user(model.AccountStaffMember), 1, inventorysvc.Patch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if *got != orig {
		t.Fatalf("empty patch changed the book: %+v", got)
	}
}

func TestUpdate_PartialKeepsOmittedFields(t *testing.T) {
	title := "new title"
	m := &repoMock{
		updateFn: func(ctx context.Context, id int64, p inventorysvc.Patch) (*model.Book, error) {
			if p.Title == nil || *p.Title != title {
				t.Fatal("title not in patch")
			}
			if p.ISBN != nil || p.Author != nil || p.AvailableCopies != nil || p.OwnerID != nil {
				t.Fatal("omitted fields must stay nil")
			}
			return &model.Book{ID: id, ISBN: "123", Title: title, Author: "b", AvailableCopies: 2, OwnerID: 7}, nil
		},
	}
	s := inventorysvc.New(m)
	if _, err := s.Update(context.Background(), user(model.AccountAdmin), 1, inventorysvc.Patch{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestUpdate_Forbidden(t *testing.T) {
	s := inventorysvc.New(&repoMock{})
	_, err := s.Update(context.Background(), user(model.AccountGeneralUser), 1, inventorysvc.Patch{})
	if inventorysvc.Code(err) != inventorysvc.ErrForbidden {
		t.Fatalf("general user update: got %v", err)
	}
}

func TestDelete_Authorization(t *testing.T) {
	deleted := false
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) (bool, error) {
			deleted = true
			return true, nil
		},
	}
	s := inventorysvc.New(m)
	ctx := context.Background()

	if err := s.Delete(ctx, user(model.AccountGeneralUser), 1); inventorysvc.Code(err) != inventorysvc.ErrForbidden {
		t.Fatalf("general user delete: got %v", err)
	}
	if err := s.Delete(ctx, user(model.AccountStaffMember), 1); inventorysvc.Code(err) != inventorysvc.ErrForbidden {
		t.Fatalf("staff delete: got %v", err)
	}
	if deleted {
		t.Fatal("repo touched by a denied delete")
	}
	if err := s.Delete(ctx, user(model.AccountAdmin), 1); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if !deleted {
		t.Fatal("admin delete never reached the repo")
	}
}

func TestDelete_NotFound(t *testing.T) {
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}
	s := inventorysvc.New(m)
	if err := s.Delete(context.Background(), user(model.AccountAdmin), 99); inventorysvc.Code(err) != inventorysvc.ErrBookNotFound {
		t.Fatalf("got %v", err)
	}
}

// fakeStock mimics the repository's conditional decrement: the check and
// the decrement happen under one lock, as they do in one SQL statement.
type fakeStock struct {
	mu        sync.Mutex
	copies    int64
	checkouts []model.BookCheckout
}

func (f *fakeStock) checkoutOne(bookID, userID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copies <= 0 {
		return false
	}
	f.copies--
	f.checkouts = append(f.checkouts, model.BookCheckout{BookID: bookID, UserID: userID})
	return true
}

func stockService(f *fakeStock) inventorysvc.Service {
	return inventorysvc.New(&repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return &model.Book{ID: id, ISBN: "123", AvailableCopies: f.copies}, nil
		},
		checkoutFn: func(ctx context.Context, bookID, userID int64) (bool, error) {
			return f.checkoutOne(bookID, userID), nil
		},
		returnFn: func(ctx context.Context, bookID int64) (bool, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.copies++
			return true, nil
		},
	})
}

func TestCheckout_LastCopyScenario(t *testing.T) {
	f := &fakeStock{copies: 1}
	s := stockService(f)
	ctx := context.Background()

	if err := s.Checkout(ctx, user(model.AccountStaffMember), 1); err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	if f.copies != 0 || len(f.checkouts) != 1 {
		t.Fatalf("after checkout: copies=%d checkouts=%d", f.copies, len(f.checkouts))
	}
	if err := s.Checkout(ctx, user(model.AccountAdmin), 1); inventorysvc.Code(err) != inventorysvc.ErrNoCopies {
		t.Fatalf("second checkout: got %v", err)
	}
	if f.copies < 0 {
		t.Fatalf("available copies went negative: %d", f.copies)
	}
}

func TestCheckout_Forbidden(t *testing.T) {
	f := &fakeStock{copies: 1}
	s := stockService(f)
	err := s.Checkout(context.Background(), user(model.AccountGeneralUser), 1)
	if inventorysvc.Code(err) != inventorysvc.ErrForbidden {
		t.Fatalf("got %v", err)
	}
	if len(f.checkouts) != 0 {
		t.Fatal("denied checkout reached the stock")
	}
}

func TestCheckout_ConcurrentNeverOverdraws(t *testing.T) {
	const n = 50
	const k = 8
	f := &fakeStock{copies: k}
	s := stockService(f)

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Checkout(context.Background(), user(model.AccountStaffMember), 1)
		}()
	}
	wg.Wait()
	close(results)

	var okCount, noStock int
	for err := range results {
		switch inventorysvc.Code(err) {
		case "":
			okCount++
		case inventorysvc.ErrNoCopies:
			noStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != k || noStock != n-k {
		t.Fatalf("got %d successes, %d no-stock; want %d and %d", okCount, noStock, k, n-k)
	}
	if f.copies != 0 {
		t.Fatalf("copies = %d after draining; want 0", f.copies)
	}
	if len(f.checkouts) != k {
		t.Fatalf("%d checkout rows; want %d", len(f.checkouts), k)
	}
}

func TestReturn_ThenCheckoutAgain(t *testing.T) {
	f := &fakeStock{copies: 0}
	s := stockService(f)
	ctx := context.Background()

	if err := s.Checkout(ctx, user(model.AccountStaffMember), 1); inventorysvc.Code(err) != inventorysvc.ErrNoCopies {
		t.Fatalf("empty stock: got %v", err)
	}
	if err := s.Return(ctx, user(model.AccountGeneralUser), 1); err != nil {
		t.Fatalf("return: %v", err)
	}
	if err := s.Checkout(ctx, user(model.AccountStaffMember), 1); err != nil {
		t.Fatalf("checkout after return: %v", err)
	}
}

func TestList_EmptyInventory(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context) ([]model.Book, error) { return nil, nil },
	}
	s := inventorysvc.New(m)
	books, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("want empty list, got %d", len(books))
	}
}
