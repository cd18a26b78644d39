package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"freshr_backend/internal/events"
	"freshr_backend/internal/orders/domain"
	"freshr_backend/internal/orders/ports"
	"freshr_backend/internal/orders/repository"
	"freshr_backend/internal/orders/transport"
	"freshr_backend/platform/apperr"
	"freshr_backend/platform/logger"
)

// fakeStore is an in-memory Store with snapshot-rollback transactions, so
// guard rejections leave state untouched exactly like a real rollback.
type fakeStore struct {
	mu            sync.Mutex
	orders        map[uuid.UUID]domain.Order
	orderServices map[uuid.UUID][]domain.OrderService
	specialists   map[uuid.UUID]domain.Specialist
	facilities    map[uuid.UUID]domain.Facility
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:        make(map[uuid.UUID]domain.Order),
		orderServices: make(map[uuid.UUID][]domain.OrderService),
		specialists:   make(map[uuid.UUID]domain.Specialist),
		facilities:    make(map[uuid.UUID]domain.Facility),
	}
}

func cloneOrders(src map[uuid.UUID]domain.Order) map[uuid.UUID]domain.Order {
	dst := make(map[uuid.UUID]domain.Order, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapOrders := cloneOrders(f.orders)
	snapSpecialists := make(map[uuid.UUID]domain.Specialist, len(f.specialists))
	for k, v := range f.specialists {
		snapSpecialists[k] = v
	}
	snapFacilities := make(map[uuid.UUID]domain.Facility, len(f.facilities))
	for k, v := range f.facilities {
		snapFacilities[k] = v
	}

	if err := fn(&fakeTx{store: f}); err != nil {
		f.orders = snapOrders
		f.specialists = snapSpecialists
		f.facilities = snapFacilities
		return err
	}
	return nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return domain.Order{}, apperr.NotFound("order not found")
	}
	return order, nil
}

func (f *fakeStore) GetOrderServices(ctx context.Context, orderID uuid.UUID) ([]domain.OrderService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderServices[orderID], nil
}

func (f *fakeStore) ListActiveBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.Order, 0)
	for _, order := range f.orders {
		if order.SpecialistID == specialistID && order.Status.Active() && order.IsPaid {
			items = append(items, order)
		}
	}
	return items, nil
}

func (f *fakeStore) ListHistoryByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.Order, 0)
	for _, order := range f.orders {
		if order.ClientID == clientID && order.Status.Terminal() {
			items = append(items, order)
		}
	}
	return items, nil
}

func (f *fakeStore) ListHistoryBySpecialist(ctx context.Context, specialistID uuid.UUID, limit int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.Order, 0)
	for _, order := range f.orders {
		if order.SpecialistID == specialistID && order.Status.Terminal() {
			items = append(items, order)
		}
	}
	return items, nil
}

func (f *fakeStore) GetSpecialist(ctx context.Context, id uuid.UUID) (domain.Specialist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	specialist, ok := f.specialists[id]
	if !ok {
		return domain.Specialist{}, apperr.NotFound("specialist not found")
	}
	return specialist, nil
}

func (f *fakeStore) GetFacility(ctx context.Context, id uuid.UUID) (domain.Facility, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	facility, ok := f.facilities[id]
	if !ok {
		return domain.Facility{}, apperr.NotFound("facility not found")
	}
	return facility, nil
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) OrderForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	order, ok := t.store.orders[id]
	if !ok {
		return domain.Order{}, apperr.NotFound("order not found")
	}
	return order, nil
}

func (t *fakeTx) SpecialistForUpdate(ctx context.Context, id uuid.UUID) (domain.Specialist, error) {
	specialist, ok := t.store.specialists[id]
	if !ok {
		return domain.Specialist{}, apperr.NotFound("specialist not found")
	}
	return specialist, nil
}

func (t *fakeTx) FacilityForUpdate(ctx context.Context, id uuid.UUID) (domain.Facility, error) {
	facility, ok := t.store.facilities[id]
	if !ok {
		return domain.Facility{}, apperr.NotFound("facility not found")
	}
	return facility, nil
}

func (t *fakeTx) InsertOrder(ctx context.Context, order domain.Order) error {
	t.store.orders[order.ID] = order
	return nil
}

func (t *fakeTx) InsertOrderServices(ctx context.Context, orderID uuid.UUID, items []domain.OrderService) error {
	t.store.orderServices[orderID] = items
	return nil
}

func (t *fakeTx) SaveOrder(ctx context.Context, order domain.Order) error {
	if _, ok := t.store.orders[order.ID]; !ok {
		return apperr.NotFound("order not found")
	}
	t.store.orders[order.ID] = order
	return nil
}

func (t *fakeTx) SaveSpecialistQueue(ctx context.Context, specialist domain.Specialist) error {
	current, ok := t.store.specialists[specialist.ID]
	if !ok {
		return apperr.NotFound("specialist not found")
	}
	current.QueueLen = specialist.QueueLen
	current.IsBusy = specialist.IsBusy
	current.FrontOrderID = specialist.FrontOrderID
	current.BackOrderID = specialist.BackOrderID
	t.store.specialists[specialist.ID] = current
	return nil
}

func (t *fakeTx) AdjustFacilitySeats(ctx context.Context, facilityID uuid.UUID, delta int) error {
	facility, ok := t.store.facilities[facilityID]
	if !ok {
		return apperr.NotFound("facility not found")
	}
	seats := facility.AvailableSeats + delta
	if seats < 0 {
		seats = 0
	}
	if seats > facility.TotalSeats {
		seats = facility.TotalSeats
	}
	facility.AvailableSeats = seats
	t.store.facilities[facilityID] = facility
	return nil
}

func (t *fakeTx) ShiftPositionsAfter(ctx context.Context, specialistID uuid.UUID, position int) error {
	for id, order := range t.store.orders {
		if order.SpecialistID == specialistID && order.Status.Active() && order.Position > position {
			order.Position--
			t.store.orders[id] = order
		}
	}
	return nil
}

type fakeCatalog struct {
	offerings map[uuid.UUID]ports.Offering
}

func (c *fakeCatalog) GetOfferings(ctx context.Context, ids []uuid.UUID) ([]ports.Offering, error) {
	items := make([]ports.Offering, 0, len(ids))
	for _, id := range ids {
		offering, ok := c.offerings[id]
		if !ok {
			return nil, apperr.NotFound("service not found")
		}
		items = append(items, offering)
	}
	return items, nil
}

type fakeChats struct {
	mu   sync.Mutex
	open map[uuid.UUID]bool
}

func (c *fakeChats) Open(ctx context.Context, orderID, clientID, specialistID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open[orderID] = true
	return nil
}

func (c *fakeChats) Close(ctx context.Context, orderID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.open, orderID)
	return nil
}

type recorderBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recorderBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recorderBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recorderBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recorderBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.events))
	for _, event := range b.events {
		names = append(names, event.EventName())
	}
	return names
}

type fixture struct {
	svc          *Service
	store        *fakeStore
	catalog      *fakeCatalog
	chats        *fakeChats
	bus          *recorderBus
	specialistID uuid.UUID
	facilityID   uuid.UUID
	serviceID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newFakeStore()
	specialistID := uuid.New()
	facilityID := uuid.New()
	serviceID := uuid.New()

	store.facilities[facilityID] = domain.Facility{
		ID:             facilityID,
		Address:        "12 Canal Street",
		TotalSeats:     3,
		AvailableSeats: 3,
	}
	store.specialists[specialistID] = domain.Specialist{
		ID:          specialistID,
		FacilityID:  facilityID,
		DisplayName: "Sam",
		IsQueueing:  true,
		MaxQueue:    4,
	}

	catalog := &fakeCatalog{offerings: map[uuid.UUID]ports.Offering{
		serviceID: {ID: serviceID, SpecialistID: specialistID, Name: "Haircut", PriceCents: 2500},
	}}
	chats := &fakeChats{open: make(map[uuid.UUID]bool)}
	bus := &recorderBus{}

	svc := New(store, catalog, chats, bus, logger.New("test"))

	return &fixture{
		svc:          svc,
		store:        store,
		catalog:      catalog,
		chats:        chats,
		bus:          bus,
		specialistID: specialistID,
		facilityID:   facilityID,
		serviceID:    serviceID,
	}
}

// payOrder runs checkout plus payment for a fresh client and returns the
// queued order.
func (f *fixture) payOrder(t *testing.T) transport.OrderResponse {
	t.Helper()
	ctx := context.Background()
	clientID := uuid.New()

	created, err := f.svc.Checkout(ctx, clientID, transport.CheckoutRequest{
		SpecialistID: f.specialistID,
		ServiceIDs:   []uuid.UUID{f.serviceID},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	paid, err := f.svc.ConfirmPayment(ctx, clientID, created.ID)
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	return paid.Order
}

func (f *fixture) specialist(t *testing.T) domain.Specialist {
	t.Helper()
	specialist, err := f.store.GetSpecialist(context.Background(), f.specialistID)
	if err != nil {
		t.Fatalf("get specialist: %v", err)
	}
	return specialist
}

func (f *fixture) facility(t *testing.T) domain.Facility {
	t.Helper()
	facility, err := f.store.GetFacility(context.Background(), f.facilityID)
	if err != nil {
		t.Fatalf("get facility: %v", err)
	}
	return facility
}

func (f *fixture) order(t *testing.T, id uuid.UUID) domain.Order {
	t.Helper()
	order, err := f.store.GetOrder(context.Background(), id)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	return order
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := apperr.GetCode(err); got != code {
		t.Fatalf("expected code %s, got %s (%v)", code, got, err)
	}
}

func TestCheckoutCreatesUnpaidOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := uuid.New()

	created, err := f.svc.Checkout(ctx, clientID, transport.CheckoutRequest{
		SpecialistID: f.specialistID,
		ServiceIDs:   []uuid.UUID{f.serviceID},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if created.IsPaid {
		t.Fatalf("checkout must not mark the order paid")
	}
	if created.PriceCents != 2500 {
		t.Fatalf("expected price 2500, got %d", created.PriceCents)
	}
	if got := f.specialist(t).QueueLen; got != 0 {
		t.Fatalf("unpaid order must not enter the queue, queue_len = %d", got)
	}
}

func TestPayEntersQueueAtFront(t *testing.T) {
	f := newFixture(t)

	paid := f.payOrder(t)

	if !paid.IsPaid {
		t.Fatalf("expected paid order")
	}
	if paid.Position != 0 {
		t.Fatalf("first paid order must be position 0, got %d", paid.Position)
	}

	specialist := f.specialist(t)
	if specialist.QueueLen != 1 {
		t.Fatalf("expected queue_len 1, got %d", specialist.QueueLen)
	}
	if specialist.FrontOrderID == nil || *specialist.FrontOrderID != paid.ID {
		t.Fatalf("front pointer not set to the paid order")
	}
	if specialist.BackOrderID == nil || *specialist.BackOrderID != paid.ID {
		t.Fatalf("back pointer not set to the paid order")
	}

	if !f.chats.open[paid.ID] {
		t.Fatalf("chat session must open when the order enters the queue")
	}
	if names := f.bus.names(); len(names) != 1 || names[0] != "orders.order.queued" {
		t.Fatalf("expected a single queued event, got %v", names)
	}
}

func TestPayTwiceRejected(t *testing.T) {
	f := newFixture(t)
	paid := f.payOrder(t)

	_, err := f.svc.ConfirmPayment(context.Background(), paid.ClientID, paid.ID)
	wantCode(t, err, domain.CodeAlreadyPaid)
}

func TestQueueChainStaysConsistent(t *testing.T) {
	f := newFixture(t)

	first := f.payOrder(t)
	second := f.payOrder(t)
	third := f.payOrder(t)

	o1 := f.order(t, first.ID)
	o2 := f.order(t, second.ID)
	o3 := f.order(t, third.ID)

	if o1.Position != 0 || o2.Position != 1 || o3.Position != 2 {
		t.Fatalf("positions = %d, %d, %d, want 0, 1, 2", o1.Position, o2.Position, o3.Position)
	}
	if o1.BeforeOrderID != nil {
		t.Fatalf("front order must have no before link")
	}
	if o1.AfterOrderID == nil || *o1.AfterOrderID != o2.ID {
		t.Fatalf("first.after must link to second")
	}
	if o2.BeforeOrderID == nil || *o2.BeforeOrderID != o1.ID {
		t.Fatalf("second.before must link to first")
	}
	if o2.AfterOrderID == nil || *o2.AfterOrderID != o3.ID {
		t.Fatalf("second.after must link to third")
	}
	if o3.AfterOrderID != nil {
		t.Fatalf("back order must have no after link")
	}

	snapshot, err := f.svc.GetQueue(context.Background(), f.specialistID)
	if err != nil {
		t.Fatalf("get queue: %v", err)
	}
	if len(snapshot.Entries) != 3 {
		t.Fatalf("expected 3 queue entries, got %d", len(snapshot.Entries))
	}
	for i, entry := range snapshot.Entries {
		if entry.Position != i {
			t.Fatalf("snapshot entry %d has position %d", i, entry.Position)
		}
	}
}

func TestAdmissionLimitQueueing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.payOrder(t)
	}

	// Checkout while a slot is still free, then let someone else take it.
	// The authoritative admission check runs at payment time.
	clientID := uuid.New()
	created, err := f.svc.Checkout(ctx, clientID, transport.CheckoutRequest{
		SpecialistID: f.specialistID,
		ServiceIDs:   []uuid.UUID{f.serviceID},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	f.payOrder(t)

	_, err = f.svc.ConfirmPayment(ctx, clientID, created.ID)
	wantCode(t, err, domain.CodeCapacityExceeded)

	if got := f.specialist(t).QueueLen; got != 4 {
		t.Fatalf("rejected payment must not change queue_len, got %d", got)
	}
	if f.order(t, created.ID).IsPaid {
		t.Fatalf("rejected payment must not mark the order paid")
	}

	_, err = f.svc.Checkout(ctx, uuid.New(), transport.CheckoutRequest{
		SpecialistID: f.specialistID,
		ServiceIDs:   []uuid.UUID{f.serviceID},
	})
	wantCode(t, err, domain.CodeCapacityExceeded)
}

func TestAdmissionNotQueueing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	specialist := f.store.specialists[f.specialistID]
	specialist.IsQueueing = false
	f.store.specialists[f.specialistID] = specialist

	clientID := uuid.New()
	created, err := f.svc.Checkout(ctx, clientID, transport.CheckoutRequest{
		SpecialistID: f.specialistID,
		ServiceIDs:   []uuid.UUID{f.serviceID},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	f.payOrder(t)

	_, err = f.svc.ConfirmPayment(ctx, clientID, created.ID)
	wantCode(t, err, domain.CodeCapacityExceeded)
}

func TestAcceptRequiresFront(t *testing.T) {
	f := newFixture(t)
	f.payOrder(t)
	second := f.payOrder(t)

	ctx := context.Background()
	seatsBefore := f.facility(t).AvailableSeats

	_, err := f.svc.Accept(ctx, f.specialistID, second.ID)
	wantCode(t, err, domain.CodeNotFrontOfQueue)

	if got := f.order(t, second.ID).Status; got != domain.StatusPending {
		t.Fatalf("rejected accept must not change status, got %s", got)
	}
	if got := f.facility(t).AvailableSeats; got != seatsBefore {
		t.Fatalf("rejected accept must not take a seat")
	}
}

func TestAcceptTakesSeatAndIssuesCode(t *testing.T) {
	f := newFixture(t)
	front := f.payOrder(t)

	ctx := context.Background()
	accepted, err := f.svc.Accept(ctx, f.specialistID, front.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if accepted.Order.Status != string(domain.StatusInTraffic) {
		t.Fatalf("expected IN_TRAFFIC, got %s", accepted.Order.Status)
	}
	if accepted.Order.StartCode == nil || len(*accepted.Order.StartCode) != 4 {
		t.Fatalf("expected a 4-digit start code, got %v", accepted.Order.StartCode)
	}
	if len(accepted.Queue.Entries) != 1 || accepted.Queue.Entries[0].OrderID != front.ID {
		t.Fatalf("transition must return the resulting queue snapshot, got %+v", accepted.Queue.Entries)
	}
	if got := f.facility(t).AvailableSeats; got != 2 {
		t.Fatalf("expected one seat taken, available = %d", got)
	}
	if !f.specialist(t).IsBusy {
		t.Fatalf("specialist must be busy after accepting")
	}
}

func TestAcceptWithoutSeat(t *testing.T) {
	f := newFixture(t)
	front := f.payOrder(t)

	facility := f.store.facilities[f.facilityID]
	facility.AvailableSeats = 0
	f.store.facilities[f.facilityID] = facility

	_, err := f.svc.Accept(context.Background(), f.specialistID, front.ID)
	wantCode(t, err, domain.CodeSeatUnavailable)

	if got := f.order(t, front.ID).Status; got != domain.StatusPending {
		t.Fatalf("order must stay PENDING without a seat, got %s", got)
	}
}

func TestStartRequiresMatchingCode(t *testing.T) {
	f := newFixture(t)
	front := f.payOrder(t)

	ctx := context.Background()
	accepted, err := f.svc.Accept(ctx, f.specialistID, front.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	wrong := "0000"
	if *accepted.Order.StartCode == wrong {
		wrong = "0001"
	}
	_, err = f.svc.Start(ctx, f.specialistID, front.ID, wrong)
	wantCode(t, err, domain.CodeInvalidCode)

	stored := f.order(t, front.ID)
	if stored.Status != domain.StatusInTraffic {
		t.Fatalf("wrong code must not advance status, got %s", stored.Status)
	}
	if stored.EndCode != nil {
		t.Fatalf("wrong code must not issue an end code")
	}

	started, err := f.svc.Start(ctx, f.specialistID, front.ID, *accepted.Order.StartCode)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.Order.Status != string(domain.StatusOngoing) {
		t.Fatalf("expected ONGOING, got %s", started.Order.Status)
	}
	if started.Order.EndCode == nil || len(*started.Order.EndCode) != 4 {
		t.Fatalf("expected a 4-digit end code, got %v", started.Order.EndCode)
	}
}

func TestCompleteAdvancesQueue(t *testing.T) {
	f := newFixture(t)
	first := f.payOrder(t)
	second := f.payOrder(t)
	third := f.payOrder(t)

	ctx := context.Background()
	accepted, err := f.svc.Accept(ctx, f.specialistID, first.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	started, err := f.svc.Start(ctx, f.specialistID, first.ID, *accepted.Order.StartCode)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	completed, err := f.svc.Complete(ctx, f.specialistID, first.ID, *started.Order.EndCode)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if completed.Order.Status != string(domain.StatusCompleted) {
		t.Fatalf("expected COMPLETED, got %s", completed.Order.Status)
	}
	if len(completed.Queue.Entries) != 2 || completed.Queue.Entries[0].OrderID != second.ID {
		t.Fatalf("snapshot must show the advanced queue, got %+v", completed.Queue.Entries)
	}

	newFront := f.order(t, second.ID)
	if newFront.Position != 0 || newFront.BeforeOrderID != nil {
		t.Fatalf("second order must become the front: position %d, before %v", newFront.Position, newFront.BeforeOrderID)
	}
	if got := f.order(t, third.ID).Position; got != 1 {
		t.Fatalf("third order must move up to position 1, got %d", got)
	}

	specialist := f.specialist(t)
	if specialist.QueueLen != 2 {
		t.Fatalf("expected queue_len 2, got %d", specialist.QueueLen)
	}
	if specialist.IsBusy {
		t.Fatalf("specialist must not be busy after completing")
	}
	if specialist.FrontOrderID == nil || *specialist.FrontOrderID != second.ID {
		t.Fatalf("front pointer must advance to the second order")
	}

	if got := f.facility(t).AvailableSeats; got != 3 {
		t.Fatalf("seat must be restored on completion, available = %d", got)
	}
	if f.chats.open[first.ID] {
		t.Fatalf("chat session must close on completion")
	}
}

func TestCompleteLastOrderEmptiesQueue(t *testing.T) {
	f := newFixture(t)
	only := f.payOrder(t)

	ctx := context.Background()
	accepted, err := f.svc.Accept(ctx, f.specialistID, only.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	started, err := f.svc.Start(ctx, f.specialistID, only.ID, *accepted.Order.StartCode)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.svc.Complete(ctx, f.specialistID, only.ID, *started.Order.EndCode); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	specialist := f.specialist(t)
	if specialist.QueueLen != 0 {
		t.Fatalf("expected empty queue, queue_len = %d", specialist.QueueLen)
	}
	if specialist.FrontOrderID != nil || specialist.BackOrderID != nil {
		t.Fatalf("queue pointers must clear when the last order completes")
	}
}

func TestQueueRoundTrips(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("orders=%d", n), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			specialist := f.store.specialists[f.specialistID]
			specialist.MaxQueue = 5
			f.store.specialists[f.specialistID] = specialist

			orders := make([]transport.OrderResponse, 0, n)
			for i := 0; i < n; i++ {
				orders = append(orders, f.payOrder(t))
			}

			for _, order := range orders {
				accepted, err := f.svc.Accept(ctx, f.specialistID, order.ID)
				if err != nil {
					t.Fatalf("accept %s: %v", order.ID, err)
				}
				started, err := f.svc.Start(ctx, f.specialistID, order.ID, *accepted.Order.StartCode)
				if err != nil {
					t.Fatalf("start %s: %v", order.ID, err)
				}
				if _, err := f.svc.Complete(ctx, f.specialistID, order.ID, *started.Order.EndCode); err != nil {
					t.Fatalf("complete %s: %v", order.ID, err)
				}
			}

			after := f.specialist(t)
			if after.QueueLen != 0 || after.FrontOrderID != nil || after.BackOrderID != nil {
				t.Fatalf("queue must be empty after servicing everyone: len %d", after.QueueLen)
			}
			if got := f.facility(t).AvailableSeats; got != 3 {
				t.Fatalf("all seats must be restored, available = %d", got)
			}
			snapshot, err := f.svc.GetQueue(ctx, f.specialistID)
			if err != nil {
				t.Fatalf("get queue: %v", err)
			}
			if len(snapshot.Entries) != 0 {
				t.Fatalf("expected an empty snapshot, got %d entries", len(snapshot.Entries))
			}
		})
	}
}

func TestCancelRequiresFront(t *testing.T) {
	f := newFixture(t)
	first := f.payOrder(t)
	second := f.payOrder(t)

	_, err := f.svc.Cancel(context.Background(), second.ClientID, second.ID)
	wantCode(t, err, domain.CodeNotFrontOfQueue)

	o1 := f.order(t, first.ID)
	o2 := f.order(t, second.ID)
	if o2.Status != domain.StatusPending || o2.Position != 1 {
		t.Fatalf("rejected cancel must not mutate the order: status %s, position %d", o2.Status, o2.Position)
	}
	if o1.AfterOrderID == nil || *o1.AfterOrderID != o2.ID {
		t.Fatalf("rejected cancel must leave the chain intact")
	}
	if got := f.specialist(t).QueueLen; got != 2 {
		t.Fatalf("rejected cancel must not change queue_len, got %d", got)
	}
}

func TestCancelFrontAdvancesQueue(t *testing.T) {
	f := newFixture(t)
	first := f.payOrder(t)
	second := f.payOrder(t)
	third := f.payOrder(t)

	cancelled, err := f.svc.Cancel(context.Background(), first.ClientID, first.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Order.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Order.Status)
	}
	if len(cancelled.Queue.Entries) != 2 || cancelled.Queue.Entries[0].OrderID != second.ID {
		t.Fatalf("snapshot must show the advanced queue, got %+v", cancelled.Queue.Entries)
	}

	o2 := f.order(t, second.ID)
	o3 := f.order(t, third.ID)
	if o2.Position != 0 || o2.BeforeOrderID != nil {
		t.Fatalf("second order must become the front: position %d, before %v", o2.Position, o2.BeforeOrderID)
	}
	if o3.Position != 1 {
		t.Fatalf("third order must move up to position 1, got %d", o3.Position)
	}

	specialist := f.specialist(t)
	if specialist.QueueLen != 2 {
		t.Fatalf("expected queue_len 2, got %d", specialist.QueueLen)
	}
	if specialist.FrontOrderID == nil || *specialist.FrontOrderID != second.ID {
		t.Fatalf("front pointer must advance to the second order")
	}
	if specialist.BackOrderID == nil || *specialist.BackOrderID != third.ID {
		t.Fatalf("back pointer must stay on the third order")
	}

	// A PENDING cancel never held a seat.
	if got := f.facility(t).AvailableSeats; got != 3 {
		t.Fatalf("pending cancel must not touch seats, available = %d", got)
	}
	if f.chats.open[first.ID] {
		t.Fatalf("chat session must close on cancellation")
	}
}

func TestRejectInTrafficRestoresSeat(t *testing.T) {
	f := newFixture(t)
	front := f.payOrder(t)

	ctx := context.Background()
	if _, err := f.svc.Accept(ctx, f.specialistID, front.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got := f.facility(t).AvailableSeats; got != 2 {
		t.Fatalf("expected seat taken before reject, available = %d", got)
	}

	rejected, err := f.svc.Reject(ctx, f.specialistID, front.ID)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Order.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected CANCELLED, got %s", rejected.Order.Status)
	}
	if len(rejected.Queue.Entries) != 0 {
		t.Fatalf("snapshot must show an empty queue, got %+v", rejected.Queue.Entries)
	}

	if got := f.facility(t).AvailableSeats; got != 3 {
		t.Fatalf("reject from IN_TRAFFIC must restore the seat, available = %d", got)
	}
	specialist := f.specialist(t)
	if specialist.IsBusy {
		t.Fatalf("specialist must not stay busy after rejecting")
	}
	if specialist.QueueLen != 0 {
		t.Fatalf("expected empty queue, queue_len = %d", specialist.QueueLen)
	}
	if f.chats.open[front.ID] {
		t.Fatalf("chat session must close on cancellation")
	}
}

func TestCancelOngoingRejected(t *testing.T) {
	f := newFixture(t)
	front := f.payOrder(t)

	ctx := context.Background()
	accepted, err := f.svc.Accept(ctx, f.specialistID, front.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := f.svc.Start(ctx, f.specialistID, front.ID, *accepted.Order.StartCode); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	_, err = f.svc.Cancel(ctx, front.ClientID, front.ID)
	wantCode(t, err, domain.CodeInvalidStatus)
}

func TestWrongSpecialistRejected(t *testing.T) {
	f := newFixture(t)
	front := f.payOrder(t)

	_, err := f.svc.Accept(context.Background(), uuid.New(), front.ID)
	wantCode(t, err, domain.CodeWrongSpecialist)
}

func TestConcurrentAcceptOneWins(t *testing.T) {
	f := newFixture(t)
	front := f.payOrder(t)

	ctx := context.Background()
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.svc.Accept(ctx, f.specialistID, front.ID)
			results <- err
		}()
	}

	var failures, successes int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			failures++
		} else {
			successes++
		}
	}

	if successes != 1 || failures != 1 {
		t.Fatalf("expected exactly one accept to win, got %d successes and %d failures", successes, failures)
	}
	if got := f.facility(t).AvailableSeats; got != 2 {
		t.Fatalf("exactly one seat must be taken, available = %d", got)
	}
}
