package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/testutil"
	"github.com/google/uuid"
)

func boolPtr(v bool) *bool { return &v }

func TestSetCompletionToggle(t *testing.T) {
	db := testutil.NewDB(t)
	days := services.NewDailyTaskService(db)
	svc := services.NewCompletionService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	testutil.CreateTemplate(t, db, user.ID, "Steps", 1)

	task, err := days.GetOrCreate(ctx, user.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	id := task.TaskCompletions[0].ID

	for _, want := range []bool{true, false, true} {
		tc, err := svc.SetCompletion(ctx, user.ID, id, boolPtr(want))
		if err != nil {
			t.Fatalf("SetCompletion(%v): %v", want, err)
		}
		if tc.Completed != want {
			t.Fatalf("Completed = %v, want %v", tc.Completed, want)
		}
	}

	// Omitting the value keeps what is stored.
	tc, err := svc.SetCompletion(ctx, user.ID, id, nil)
	if err != nil {
		t.Fatalf("SetCompletion(nil): %v", err)
	}
	if !tc.Completed {
		t.Fatal("SetCompletion(nil) changed the stored value")
	}
	if tc.TaskTemplate.Name != "Steps" {
		t.Fatalf("TaskTemplate = %q, want Steps", tc.TaskTemplate.Name)
	}
}

func TestSetCompletionOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	days := services.NewDailyTaskService(db)
	svc := services.NewCompletionService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateTemplate(t, db, alice.ID, "Steps", 1)

	task, err := days.GetOrCreate(ctx, alice.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if _, err := svc.SetCompletion(ctx, bob.ID, task.TaskCompletions[0].ID, boolPtr(true)); !errors.Is(err, services.ErrCompletionNotFound) {
		t.Fatalf("SetCompletion as other user = %v, want ErrCompletionNotFound", err)
	}
	if _, err := svc.SetCompletion(ctx, alice.ID, uuid.New(), boolPtr(true)); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("SetCompletion unknown id = %v, want ErrNotFound", err)
	}
}

func TestSpendingCreate(t *testing.T) {
	db := testutil.NewDB(t)
	days := services.NewDailyTaskService(db)
	svc := services.NewSpendingService(db, days, catalog.Default())
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	bobDay, err := days.GetOrCreate(ctx, bob.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	_, err = svc.Create(ctx, alice.ID, &dto.CreateSpendingRequest{DailyTaskID: &bobDay.ID, Amount: 10, Category: "Bills"})
	if !errors.Is(err, services.ErrDailyTaskForbidden) {
		t.Fatalf("Create on other user's day = %v, want ErrDailyTaskForbidden", err)
	}

	missing := uuid.New()
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateSpendingRequest{DailyTaskID: &missing, Amount: 10, Category: "Bills"}); !errors.Is(err, services.ErrDailyTaskNotFound) {
		t.Fatalf("Create on unknown day = %v, want ErrDailyTaskNotFound", err)
	}

	for _, amount := range []dto.Amount{0, -3, dto.Amount(math.NaN()), dto.Amount(math.Inf(1)), dto.Amount(math.Inf(-1))} {
		if _, err := svc.Create(ctx, alice.ID, &dto.CreateSpendingRequest{Date: "2025-12-01", Amount: amount, Category: "Bills"}); !errors.Is(err, services.ErrInvalidAmount) {
			t.Fatalf("Create amount %v = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateSpendingRequest{Date: "2025-12-01", Amount: 3, Category: "  "}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("Create blank category = %v, want ErrValidation", err)
	}
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateSpendingRequest{Amount: 3, Category: "Bills"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("Create without day = %v, want ErrValidation", err)
	}

	desc := "  lunch  "
	s, err := svc.Create(ctx, alice.ID, &dto.CreateSpendingRequest{Date: "2025-12-01", Amount: 12.5, Category: "Food & drinks", Description: &desc})
	if err != nil {
		t.Fatalf("Create by date: %v", err)
	}
	if s.Description == nil || *s.Description != "lunch" {
		t.Fatalf("Description = %v, want lunch", s.Description)
	}

	aliceDay, err := days.GetOrCreate(ctx, alice.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if s.DailyTaskID != aliceDay.ID {
		t.Fatal("spending by date must attach to the provisioned day")
	}
	if len(aliceDay.Spendings) != 1 {
		t.Fatalf("len(Spendings) = %d, want 1", len(aliceDay.Spendings))
	}
}

func TestSpendingListUpdateDelete(t *testing.T) {
	db := testutil.NewDB(t)
	days := services.NewDailyTaskService(db)
	svc := services.NewSpendingService(db, days, catalog.Default())
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	list, err := svc.ListForDate(ctx, alice.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("ListForDate: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("len(ListForDate) = %d, want 0", len(list))
	}
	var dayCount int64
	db.Model(&models.DailyTask{}).Count(&dayCount)
	if dayCount != 0 {
		t.Fatal("listing spendings must not provision a day")
	}

	first, err := svc.Create(ctx, alice.ID, &dto.CreateSpendingRequest{Date: "2025-12-01", Amount: 4, Category: "Transport"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(ctx, alice.ID, &dto.CreateSpendingRequest{Date: "2025-12-01", Amount: 9, Category: "Bills"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err = svc.ListForDate(ctx, alice.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("ListForDate: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatal("ListForDate must return newest first")
	}

	newAmount := dto.Amount(6)
	updated, err := svc.Update(ctx, alice.ID, first.ID, &dto.UpdateSpendingRequest{Amount: &newAmount})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Amount != 6 || updated.Category != "Transport" {
		t.Fatalf("Update = %v %q, want 6 Transport", updated.Amount, updated.Category)
	}

	zero := dto.Amount(0)
	if _, err := svc.Update(ctx, alice.ID, first.ID, &dto.UpdateSpendingRequest{Amount: &zero}); !errors.Is(err, services.ErrInvalidAmount) {
		t.Fatalf("Update amount 0 = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.Update(ctx, bob.ID, first.ID, &dto.UpdateSpendingRequest{Amount: &newAmount}); !errors.Is(err, services.ErrSpendingNotFound) {
		t.Fatalf("Update as other user = %v, want ErrSpendingNotFound", err)
	}

	if err := svc.Delete(ctx, bob.ID, first.ID); !errors.Is(err, services.ErrSpendingNotFound) {
		t.Fatalf("Delete as other user = %v, want ErrSpendingNotFound", err)
	}
	if err := svc.Delete(ctx, alice.ID, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, alice.ID, first.ID); !errors.Is(err, services.ErrSpendingNotFound) {
		t.Fatalf("second Delete = %v, want ErrSpendingNotFound", err)
	}

	if got := svc.Categories(); len(got) == 0 {
		t.Fatal("Categories should come from the catalog")
	}
}

func TestTemplateCreateDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewTemplateService(db, catalog.Default())
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	testutil.CreateTemplate(t, db, user.ID, "Steps", 4)

	tpl, err := svc.Create(ctx, user.ID, &dto.CreateTemplateRequest{Name: " Meditate "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tpl.Name != "Meditate" || tpl.Icon != models.DefaultTemplateIcon || !tpl.IsActive || tpl.SortOrder != 5 {
		t.Fatalf("Create = %+v, want Meditate/CheckCircle/active/5", tpl)
	}

	if _, err := svc.Create(ctx, user.ID, &dto.CreateTemplateRequest{Name: "Meditate"}); !errors.Is(err, services.ErrTemplateNameTaken) {
		t.Fatalf("duplicate Create = %v, want ErrTemplateNameTaken", err)
	}
	if _, err := svc.Create(ctx, user.ID, &dto.CreateTemplateRequest{Name: ""}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty Create = %v, want ErrValidation", err)
	}

	other := testutil.CreateUser(t, db, "bob")
	if _, err := svc.Create(ctx, other.ID, &dto.CreateTemplateRequest{Name: "Meditate"}); err != nil {
		t.Fatalf("same name for another user: %v", err)
	}
}

func TestTemplateUpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	days := services.NewDailyTaskService(db)
	svc := services.NewTemplateService(db, catalog.Default())
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	steps := testutil.CreateTemplate(t, db, alice.ID, "Steps", 1)
	testutil.CreateTemplate(t, db, alice.ID, "Water", 2)

	updated, err := svc.Update(ctx, alice.ID, steps.ID, &dto.UpdateTemplateRequest{IsActive: boolPtr(false)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IsActive || updated.Name != "Steps" {
		t.Fatalf("Update = %+v, want inactive Steps", updated)
	}

	water := "Water"
	if _, err := svc.Update(ctx, alice.ID, steps.ID, &dto.UpdateTemplateRequest{Name: &water}); !errors.Is(err, services.ErrTemplateNameTaken) {
		t.Fatalf("rename to existing = %v, want ErrTemplateNameTaken", err)
	}
	if _, err := svc.Update(ctx, bob.ID, steps.ID, &dto.UpdateTemplateRequest{IsActive: boolPtr(true)}); !errors.Is(err, services.ErrTemplateNotFound) {
		t.Fatalf("Update as other user = %v, want ErrTemplateNotFound", err)
	}

	if _, err := svc.Update(ctx, alice.ID, steps.ID, &dto.UpdateTemplateRequest{IsActive: boolPtr(true)}); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if _, err := days.GetOrCreate(ctx, alice.ID, testutil.Day(2025, 12, 1)); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if err := svc.Delete(ctx, bob.ID, steps.ID); !errors.Is(err, services.ErrTemplateNotFound) {
		t.Fatalf("Delete as other user = %v, want ErrTemplateNotFound", err)
	}
	if err := svc.Delete(ctx, alice.ID, steps.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var n int64
	db.Model(&models.TaskCompletion{}).Where("task_template_id = ?", steps.ID).Count(&n)
	if n != 0 {
		t.Fatalf("completions of deleted template = %d, want 0", n)
	}
}

func TestReorderIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewTemplateService(db, catalog.Default())
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	t1 := testutil.CreateTemplate(t, db, alice.ID, "Steps", 1)
	t2 := testutil.CreateTemplate(t, db, alice.ID, "Water", 2)
	foreign := testutil.CreateTemplate(t, db, bob.ID, "Reading", 1)

	err := svc.Reorder(ctx, alice.ID, []dto.ReorderItem{
		{ID: t1.ID, SortOrder: 2},
		{ID: foreign.ID, SortOrder: 3},
		{ID: t2.ID, SortOrder: 1},
	})
	if !errors.Is(err, services.ErrTemplateNotFound) {
		t.Fatalf("Reorder with foreign id = %v, want ErrTemplateNotFound", err)
	}

	list, err := svc.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list[0].ID != t1.ID || list[0].SortOrder != 1 || list[1].SortOrder != 2 {
		t.Fatal("failed reorder left a partial update behind")
	}

	if err := svc.Reorder(ctx, alice.ID, []dto.ReorderItem{{ID: t1.ID, SortOrder: 2}, {ID: t2.ID, SortOrder: 1}}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	list, err = svc.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list[0].ID != t2.ID || list[1].ID != t1.ID {
		t.Fatal("Reorder did not apply the new order")
	}

	if err := svc.Reorder(ctx, alice.ID, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty Reorder = %v, want ErrValidation", err)
	}
}

func TestSeedDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewTemplateService(db, catalog.Default())
	ctx := context.Background()

	fresh := testutil.CreateUser(t, db, "alice")
	existing := testutil.CreateUser(t, db, "bob")
	testutil.CreateTemplate(t, db, existing.ID, "Custom", 1)

	n, err := svc.SeedDefaults(ctx, fresh.ID)
	if err != nil || n != 6 {
		t.Fatalf("SeedDefaults(fresh) = %d, %v; want 6, nil", n, err)
	}
	n, err = svc.SeedDefaults(ctx, existing.ID)
	if err != nil || n != 0 {
		t.Fatalf("SeedDefaults(existing) = %d, %v; want 0, nil", n, err)
	}
}

func TestDietMeals(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewDietService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	for _, day := range []int{0, 8} {
		if _, err := svc.Create(ctx, alice.ID, &dto.CreateDietMealRequest{Day: day, MealType: "Lunch", Name: "Soup"}); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("Create day %d = %v, want ErrValidation", day, err)
		}
	}
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateDietMealRequest{Day: 1, Name: "Soup"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("Create without meal_type = %v, want ErrValidation", err)
	}

	lunch, err := svc.Create(ctx, alice.ID, &dto.CreateDietMealRequest{Day: 2, MealType: "Lunch", Name: "Soup", Kcal: 350, SortOrder: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(lunch.Ingredients) != 0 || lunch.Ingredients == nil {
		t.Fatalf("Ingredients = %#v, want empty list", lunch.Ingredients)
	}
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateDietMealRequest{Day: 2, MealType: "Breakfast", Name: "Oats", SortOrder: 1, Ingredients: []string{"oats", "milk"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateDietMealRequest{Day: 1, MealType: "Dinner", Name: "Fish", SortOrder: 5}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := svc.List(ctx, alice.ID, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Fish" || all[1].Name != "Oats" || all[2].Name != "Soup" {
		t.Fatal("List must order by day then sort_order")
	}
	if got := []string(all[1].Ingredients); len(got) != 2 || got[0] != "oats" {
		t.Fatalf("Ingredients = %v, want [oats milk]", got)
	}

	tuesday := 2
	day2, err := svc.List(ctx, alice.ID, &tuesday)
	if err != nil || len(day2) != 2 {
		t.Fatalf("List(day 2) = %d, %v; want 2 meals", len(day2), err)
	}

	kcal := 420.0
	updated, err := svc.Update(ctx, alice.ID, lunch.ID, &dto.UpdateDietMealRequest{Kcal: &kcal})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Kcal != 420 || updated.Name != "Soup" {
		t.Fatalf("Update = %+v", updated)
	}

	if _, err := svc.Update(ctx, bob.ID, lunch.ID, &dto.UpdateDietMealRequest{Kcal: &kcal}); !errors.Is(err, services.ErrDietMealNotFound) {
		t.Fatalf("Update as other user = %v, want ErrDietMealNotFound", err)
	}
	if err := svc.Delete(ctx, bob.ID, lunch.ID); !errors.Is(err, services.ErrDietMealNotFound) {
		t.Fatalf("Delete as other user = %v, want ErrDietMealNotFound", err)
	}
	if err := svc.Delete(ctx, alice.ID, lunch.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
