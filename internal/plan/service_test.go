package plan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func expectPlansQueries(mock pgxmock.PgxPoolIface, userID string, activities, lodgings *pgxmock.Rows) {
	mock.ExpectQuery(`SELECT sa.activity_id, a.title, t.id, t.title, t.thumbnail_url`).
		WithArgs(userID).
		WillReturnRows(activities)
	mock.ExpectQuery(`SELECT sl.lodging_id, l.title, t.id, t.title, t.thumbnail_url`).
		WithArgs(userID).
		WillReturnRows(lodgings)
}

func activityRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"activity_id", "title", "trip_id", "trip_title", "trip_thumbnail"})
}

func lodgingRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"lodging_id", "title", "trip_id", "trip_title", "trip_thumbnail"})
}

func TestUserPlansCarriesTripContext(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	expectPlansQueries(mock, "user-1",
		activityRows().AddRow("act-1", "Half Dome", "trip-1", "Yosemite", "thumb.jpg"),
		lodgingRows())

	svc := NewService(mock)
	plans, err := svc.UserPlans(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("user plans: %v", err)
	}
	if len(plans.SavedActivities) != 1 {
		t.Fatalf("expected one saved activity: %+v", plans)
	}
	got := plans.SavedActivities[0]
	if got.TripID != "trip-1" || got.TripTitle != "Yosemite" || got.TripThumbnail != "thumb.jpg" {
		t.Fatalf("trip context missing: %+v", got)
	}
	if len(plans.SavedLodgings) != 0 {
		t.Fatalf("lodgings must be an empty list, got %+v", plans.SavedLodgings)
	}
}

func TestToggleActivitySavesWhenAbsent(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM saved_activities`).
		WithArgs("user-1", "act-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO saved_activities`).
		WithArgs("user-1", "act-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectPlansQueries(mock, "user-1",
		activityRows().AddRow("act-1", "Half Dome", "trip-1", "Yosemite", ""),
		lodgingRows())

	svc := NewService(mock)
	plans, err := svc.ToggleActivity(context.Background(), "user-1", "act-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(plans.SavedActivities) != 1 {
		t.Fatalf("activity must be saved: %+v", plans)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleActivityUnsavesWhenPresent(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM saved_activities`).
		WithArgs("user-1", "act-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	expectPlansQueries(mock, "user-1", activityRows(), lodgingRows())

	svc := NewService(mock)
	plans, err := svc.ToggleActivity(context.Background(), "user-1", "act-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(plans.SavedActivities) != 0 {
		t.Fatalf("activity must be unsaved: %+v", plans)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleLodgingRoundTrip(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM saved_lodgings`).
		WithArgs("user-1", "lodge-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO saved_lodgings`).
		WithArgs("user-1", "lodge-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectPlansQueries(mock, "user-1",
		activityRows(),
		lodgingRows().AddRow("lodge-1", "Camp 4", "trip-1", "Yosemite", ""))

	svc := NewService(mock)
	plans, err := svc.ToggleLodging(context.Background(), "user-1", "lodge-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(plans.SavedLodgings) != 1 {
		t.Fatalf("lodging must be saved: %+v", plans)
	}
}

func TestPlansEndpointsRequireAuth(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := fiber.New()
	deny := func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	RegisterRoutes(app.Group("/users"), NewService(mock), deny)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/me/plans", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestToggleEndpoint(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM saved_activities`).
		WithArgs("user-1", "act-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	expectPlansQueries(mock, "user-1", activityRows(), lodgingRows())

	app := fiber.New()
	allow := func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	}
	RegisterRoutes(app.Group("/users"), NewService(mock), allow)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/users/me/plans/activities/act-1", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
