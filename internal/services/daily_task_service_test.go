package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/testutil"
	"github.com/google/uuid"
)

func TestGetOrCreateProvisionsActiveTemplates(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewDailyTaskService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	water := testutil.CreateTemplate(t, db, user.ID, "Water", 2)
	steps := testutil.CreateTemplate(t, db, user.ID, "Steps", 1)
	inactive := testutil.CreateTemplate(t, db, user.ID, "Old habit", 3)
	if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// Time of day must not matter.
	task, err := svc.GetOrCreate(ctx, user.ID, time.Date(2025, 12, 1, 18, 45, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if !task.Date.Equal(testutil.Day(2025, 12, 1)) {
		t.Fatalf("Date = %v, want 2025-12-01", task.Date)
	}
	if len(task.TaskCompletions) != 2 {
		t.Fatalf("len(TaskCompletions) = %d, want 2", len(task.TaskCompletions))
	}
	if task.TaskCompletions[0].TaskTemplateID != steps.ID || task.TaskCompletions[1].TaskTemplateID != water.ID {
		t.Fatal("completions are not ordered by template sort order")
	}
	if task.TaskCompletions[0].TaskTemplate.Name != "Steps" {
		t.Fatalf("TaskTemplate not preloaded: %+v", task.TaskCompletions[0].TaskTemplate)
	}
	for _, tc := range task.TaskCompletions {
		if tc.Completed {
			t.Fatal("new completions must start unchecked")
		}
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewDailyTaskService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	testutil.CreateTemplate(t, db, user.ID, "Steps", 1)
	testutil.CreateTemplate(t, db, user.ID, "Water", 2)

	first, err := svc.GetOrCreate(ctx, user.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}
	second, err := svc.GetOrCreate(ctx, user.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("second call returned a different day: %s != %s", second.ID, first.ID)
	}
	for i := range first.TaskCompletions {
		if first.TaskCompletions[i].ID != second.TaskCompletions[i].ID {
			t.Fatal("second call changed completion rows")
		}
	}

	var count int64
	db.Model(&models.TaskCompletion{}).Count(&count)
	if count != 2 {
		t.Fatalf("completion rows = %d, want 2", count)
	}
}

func TestGetOrCreateBackfillsNewTemplates(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewDailyTaskService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	steps := testutil.CreateTemplate(t, db, user.ID, "Steps", 1)

	task, err := svc.GetOrCreate(ctx, user.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if err := db.Model(&task.TaskCompletions[0]).Update("completed", true).Error; err != nil {
		t.Fatalf("check steps: %v", err)
	}

	testutil.CreateTemplate(t, db, user.ID, "Reading", 0)
	if err := db.Model(steps).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	task, err = svc.GetOrCreate(ctx, user.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate after new template: %v", err)
	}
	if len(task.TaskCompletions) != 2 {
		t.Fatalf("len(TaskCompletions) = %d, want 2", len(task.TaskCompletions))
	}
	if task.TaskCompletions[0].TaskTemplate.Name != "Reading" {
		t.Fatalf("first completion = %q, want Reading", task.TaskCompletions[0].TaskTemplate.Name)
	}
	kept := task.TaskCompletions[1]
	if kept.TaskTemplateID != steps.ID || !kept.Completed {
		t.Fatal("completion of a deactivated template must be kept unchanged")
	}
}

func TestGetOrCreateConcurrent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewDailyTaskService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	testutil.CreateTemplate(t, db, user.ID, "Steps", 1)
	testutil.CreateTemplate(t, db, user.ID, "Water", 2)

	const workers = 8
	ids := make([]uuid.UUID, workers)
	counts := make([]int, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := svc.GetOrCreate(ctx, user.ID, testutil.Day(2025, 12, 1))
			errs[i] = err
			if task != nil {
				ids[i] = task.ID
				counts[i] = len(task.TaskCompletions)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
		if ids[i] != ids[0] {
			t.Fatalf("worker %d got day %s, want %s", i, ids[i], ids[0])
		}
		if counts[i] != 2 {
			t.Fatalf("worker %d saw %d completions, want 2", i, counts[i])
		}
	}

	var days, completions int64
	db.Model(&models.DailyTask{}).Count(&days)
	db.Model(&models.TaskCompletion{}).Count(&completions)
	if days != 1 {
		t.Fatalf("daily task rows = %d, want 1", days)
	}
	if completions != 2 {
		t.Fatalf("completion rows = %d, want 2", completions)
	}
}

func TestDailyTaskOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewDailyTaskService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	task, err := svc.GetOrCreate(ctx, alice.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if _, err := svc.Get(ctx, bob.ID, task.ID); !errors.Is(err, services.ErrDailyTaskNotFound) {
		t.Fatalf("Get as other user = %v, want ErrDailyTaskNotFound", err)
	}

	yes := true
	if _, err := svc.UpdateFlags(ctx, bob.ID, task.ID, &dto.UpdateDailyTaskRequest{Water: &yes}); !errors.Is(err, services.ErrDailyTaskNotFound) {
		t.Fatalf("UpdateFlags as other user = %v, want ErrDailyTaskNotFound", err)
	}
	if err := svc.Delete(ctx, bob.ID, task.ID); !errors.Is(err, services.ErrDailyTaskNotFound) {
		t.Fatalf("Delete as other user = %v, want ErrDailyTaskNotFound", err)
	}
}

func TestUpdateFlagsPartial(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewDailyTaskService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	task, err := svc.GetOrCreate(ctx, user.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	yes := true
	if _, err := svc.UpdateFlags(ctx, user.ID, task.ID, &dto.UpdateDailyTaskRequest{Steps: &yes}); err != nil {
		t.Fatalf("UpdateFlags steps: %v", err)
	}
	got, err := svc.UpdateFlags(ctx, user.ID, task.ID, &dto.UpdateDailyTaskRequest{Water: &yes})
	if err != nil {
		t.Fatalf("UpdateFlags water: %v", err)
	}
	if !got.Steps || !got.Water || got.Book {
		t.Fatalf("flags = steps:%v water:%v book:%v, want true true false", got.Steps, got.Water, got.Book)
	}
}

func TestDeleteDailyTaskCascades(t *testing.T) {
	db := testutil.NewDB(t)
	days := services.NewDailyTaskService(db)
	spendings := services.NewSpendingService(db, days, nil)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	testutil.CreateTemplate(t, db, user.ID, "Steps", 1)

	task, err := days.GetOrCreate(ctx, user.ID, testutil.Day(2025, 12, 1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, err := spendings.Create(ctx, user.ID, &dto.CreateSpendingRequest{DailyTaskID: &task.ID, Amount: 5, Category: "Food & drinks"}); err != nil {
		t.Fatalf("create spending: %v", err)
	}

	if err := days.Delete(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, model := range []interface{}{&models.DailyTask{}, &models.TaskCompletion{}, &models.Spending{}} {
		var n int64
		db.Model(model).Count(&n)
		if n != 0 {
			t.Fatalf("%T rows = %d after delete, want 0", model, n)
		}
	}
}

func TestProvisionRange(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewDailyTaskService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	testutil.CreateTemplate(t, db, user.ID, "Steps", 1)

	n, err := svc.ProvisionRange(ctx, user.ID, testutil.Day(2025, 11, 29), testutil.Day(2025, 12, 2))
	if err != nil {
		t.Fatalf("ProvisionRange: %v", err)
	}
	if n != 4 {
		t.Fatalf("provisioned %d days, want 4", n)
	}

	tasks, err := svc.ListRange(ctx, user.ID, testutil.Day(2025, 12, 1), testutil.Day(2025, 12, 31))
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(ListRange) = %d, want 2", len(tasks))
	}
	if !tasks[0].Date.Before(tasks[1].Date) {
		t.Fatal("ListRange must be ordered oldest first")
	}

	if _, err := svc.ProvisionRange(ctx, user.ID, testutil.Day(2025, 12, 2), testutil.Day(2025, 12, 1)); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("reversed range = %v, want ErrValidation", err)
	}
}
