package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskmasters/taskmasters-api/internal/models"
	"github.com/taskmasters/taskmasters-api/internal/services"
	"github.com/taskmasters/taskmasters-api/internal/testutil"
	"gorm.io/gorm"
)

// 2024-06-12 is a Wednesday, so the surrounding week runs 06-09 through 06-15.
var pomodoroTestNow = time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)

func seedPomodoro(t *testing.T, db *gorm.DB, userID uuid.UUID, date string) {
	t.Helper()
	completedAt, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Pomodoro{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        date,
		CompletedAt: completedAt,
	}).Error)
}

func TestRecordPomodoro(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")
	task := testutil.NewTestTask(t, db, user.ID, nil, "Write report")

	session, err := svc.Record(user.ID, &task.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-12", session.Date)
	assert.Equal(t, pomodoroTestNow, session.CompletedAt)
	require.NotNil(t, session.TaskTitle)
	assert.Equal(t, "Write report", *session.TaskTitle)
}

func TestRecordPomodoro_NoTask(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	session, err := svc.Record(user.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, session.TaskID)
	assert.Nil(t, session.TaskTitle)
}

func TestRecordPomodoro_TaskNotOwned(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")
	other := testutil.NewTestUser(t, db, "other@example.com")
	theirTask := testutil.NewTestTask(t, db, other.ID, nil, "Their task")

	_, err := svc.Record(user.ID, &theirTask.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotOwned)

	var count int64
	require.NoError(t, db.Model(&models.Pomodoro{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTodaySessions_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	first, err := svc.Record(user.ID, nil)
	require.NoError(t, err)
	clk.Advance(30 * time.Minute)
	second, err := svc.Record(user.ID, nil)
	require.NoError(t, err)

	// Yesterday's session must not leak into today's list.
	seedPomodoro(t, db, user.ID, "2024-06-11")

	sessions, err := svc.TodaySessions(user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
}

func TestTodayStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	for i := 0; i < 4; i++ {
		seedPomodoro(t, db, user.ID, "2024-06-12")
	}

	stats, err := svc.TodayStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Completed)
	assert.Equal(t, 6, stats.Goal)
	assert.Equal(t, int64(2), stats.Remaining)
	assert.Equal(t, 67, stats.Percentage)
}

func TestTodayStats_OverGoal(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	for i := 0; i < 8; i++ {
		seedPomodoro(t, db, user.ID, "2024-06-12")
	}

	stats, err := svc.TodayStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.Completed)
	assert.Equal(t, int64(0), stats.Remaining)
	assert.Equal(t, 133, stats.Percentage)
}

func TestByDateRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	seedPomodoro(t, db, user.ID, "2024-06-01")
	seedPomodoro(t, db, user.ID, "2024-06-03")
	seedPomodoro(t, db, user.ID, "2024-06-03")
	seedPomodoro(t, db, user.ID, "2024-06-05") // outside the range

	rows, err := svc.ByDateRange(user.ID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-06-03", rows[0].Date)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, "2024-06-01", rows[1].Date)
	assert.Equal(t, int64(1), rows[1].Count)
	assert.Equal(t, 6, rows[0].Goal)
}

func TestByDateRange_InvalidInput(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	_, err := svc.ByDateRange(user.ID, "", "2024-06-03")
	assert.ErrorIs(t, err, services.ErrEmptyDateRange)

	_, err = svc.ByDateRange(user.ID, "06/01/2024", "2024-06-03")
	assert.ErrorIs(t, err, services.ErrInvalidDate)

	_, err = svc.ByDateRange(user.ID, "2024-06-01", "not-a-date")
	assert.ErrorIs(t, err, services.ErrInvalidDate)
}

func TestWeekStats_Bounds(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	seedPomodoro(t, db, user.ID, "2024-06-08") // Saturday before the week
	seedPomodoro(t, db, user.ID, "2024-06-09") // Sunday, first day in
	seedPomodoro(t, db, user.ID, "2024-06-15") // Saturday, last day in
	seedPomodoro(t, db, user.ID, "2024-06-16") // Sunday after the week

	rows, err := svc.WeekStats(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-06-15", rows[0].Date)
	assert.Equal(t, "2024-06-09", rows[1].Date)
}

func TestUpdateGoal(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	goal, err := svc.UpdateGoal(user.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, goal)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, 10, stored.PomodoroGoal)
}

func TestUpdateGoal_OutOfRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	_, err := svc.UpdateGoal(user.ID, 0)
	assert.ErrorIs(t, err, services.ErrInvalidGoal)

	_, err = svc.UpdateGoal(user.ID, 21)
	assert.ErrorIs(t, err, services.ErrInvalidGoal)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.DefaultPomodoroGoal, stored.PomodoroGoal)
}

func TestUpdateGoal_UnknownUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)

	_, err := svc.UpdateGoal(uuid.New(), 5)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestDeletePomodoro(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	session, err := svc.Record(user.ID, nil)
	require.NoError(t, err)

	deleted, err := svc.Delete(session.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(session.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeletePomodoro_OtherUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")
	other := testutil.NewTestUser(t, db, "other@example.com")

	session, err := svc.Record(user.ID, nil)
	require.NoError(t, err)

	deleted, err := svc.Delete(session.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	var count int64
	require.NoError(t, db.Model(&models.Pomodoro{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGeneralStats_Empty(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	stats, err := svc.GeneralStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, 0, stats.DailyAverage)
	assert.Nil(t, stats.BestDay)
}

func TestGeneralStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")

	// Old sessions count toward the total and the best day, but sit outside
	// the trailing-week average.
	for i := 0; i < 5; i++ {
		seedPomodoro(t, db, user.ID, "2024-05-01")
	}
	// Recent window: 3 + 1 over two active days, average 2.
	seedPomodoro(t, db, user.ID, "2024-06-10")
	seedPomodoro(t, db, user.ID, "2024-06-10")
	seedPomodoro(t, db, user.ID, "2024-06-10")
	seedPomodoro(t, db, user.ID, "2024-06-12")

	stats, err := svc.GeneralStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), stats.Total)
	assert.Equal(t, 2, stats.DailyAverage)
	require.NotNil(t, stats.BestDay)
	assert.Equal(t, "2024-05-01", stats.BestDay.Date)
	assert.Equal(t, int64(5), stats.BestDay.Count)
}

func TestGeneralStats_IgnoresOtherUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	clk := &testutil.FakeClock{Current: pomodoroTestNow}
	svc := services.NewPomodoroService(db, clk)
	user := testutil.NewTestUser(t, db, "focus@example.com")
	other := testutil.NewTestUser(t, db, "other@example.com")

	seedPomodoro(t, db, user.ID, "2024-06-12")
	seedPomodoro(t, db, other.ID, "2024-06-12")
	seedPomodoro(t, db, other.ID, "2024-06-12")

	stats, err := svc.GeneralStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	require.NotNil(t, stats.BestDay)
	assert.Equal(t, int64(1), stats.BestDay.Count)
}
