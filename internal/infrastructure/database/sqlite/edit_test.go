package sqlite

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"remindee/internal/domain/constant"
	"remindee/internal/domain/entity"
	appErrors "remindee/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func editCount(t *testing.T, db *gorm.DB, chatID int64) int64 {
	t.Helper()
	n, err := countEditRows(db, chatID)
	require.NoError(t, err)
	return n
}

func TestSetEditMovesTheSlotAcrossTables(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)
	crons := NewCronReminderRepository(db)
	edits := NewEditRepository(db)

	a, err := oneShots.Create(ctx, newOneShot(5, t0, "a"))
	require.NoError(t, err)
	b, err := crons.Create(ctx, newCron(5, t0, "0 * * * *", "b"))
	require.NoError(t, err)

	require.NoError(t, oneShots.SetEdit(ctx, a, 5, constant.EditModeNone))
	require.NoError(t, edits.SetEditMode(ctx, 5, constant.EditModeDescription))
	require.NoError(t, crons.SetEdit(ctx, b, 5, constant.EditModeNone))

	remA, err := oneShots.FindByID(ctx, a)
	require.NoError(t, err)
	assert.False(t, remA.Edit)
	assert.Equal(t, constant.EditModeNone, remA.EditMode)

	remB, err := crons.FindByID(ctx, b)
	require.NoError(t, err)
	assert.True(t, remB.Edit)
	assert.Equal(t, constant.EditModeNone, remB.EditMode)

	assert.Equal(t, int64(1), editCount(t, db, 5))

	current, err := edits.FindEdit(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.IsCron())
	assert.Equal(t, b, current.GetID())
}

func TestSetEditOnAnotherChatsReminderFailsWithoutSideEffects(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)

	mine, err := oneShots.Create(ctx, newOneShot(5, t0, "mine"))
	require.NoError(t, err)
	theirs, err := oneShots.Create(ctx, newOneShot(6, t0, "theirs"))
	require.NoError(t, err)

	require.NoError(t, oneShots.SetEdit(ctx, mine, 5, constant.EditModeNone))
	err = oneShots.SetEdit(ctx, theirs, 5, constant.EditModeNone)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	got, err := oneShots.FindByID(ctx, mine)
	require.NoError(t, err)
	assert.True(t, got.Edit, "the failed call must roll back its clear step")
	assert.Equal(t, int64(0), editCount(t, db, 6))
}

func TestEditSlotInvariantUnderRandomSequences(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)
	crons := NewCronReminderRepository(db)
	edits := NewEditRepository(db)

	type target struct {
		cron bool
		id   uint
		chat int64
	}
	var targets []target
	for chat := int64(1); chat <= 3; chat++ {
		for i := 0; i < 3; i++ {
			id, err := oneShots.Create(ctx, newOneShot(chat, t0, "r"))
			require.NoError(t, err)
			targets = append(targets, target{false, id, chat})
			cid, err := crons.Create(ctx, newCron(chat, t0, "* * * * *", "c"))
			require.NoError(t, err)
			targets = append(targets, target{true, cid, chat})
		}
	}

	rng := rand.New(rand.NewPCG(7, 11))
	for step := 0; step < 200; step++ {
		tg := targets[rng.IntN(len(targets))]
		switch rng.IntN(4) {
		case 0:
			require.NoError(t, edits.ResetEdit(ctx, tg.chat))
		case 1:
			require.NoError(t, edits.SetEditMode(ctx, tg.chat, constant.EditModeTime))
		default:
			if tg.cron {
				require.NoError(t, crons.SetEdit(ctx, tg.id, tg.chat, constant.EditModeNone))
			} else {
				require.NoError(t, oneShots.SetEdit(ctx, tg.id, tg.chat, constant.EditModeNone))
			}
		}
		for chat := int64(1); chat <= 3; chat++ {
			require.LessOrEqual(t, editCount(t, db, chat), int64(1), "step %d chat %d", step, chat)
		}
	}
}

func TestConcurrentSetEditKeepsOneSlot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)
	crons := NewCronReminderRepository(db)

	var ids, cronIDs []uint
	for i := 0; i < 8; i++ {
		id, err := oneShots.Create(ctx, newOneShot(5, t0, "r"))
		require.NoError(t, err)
		ids = append(ids, id)
		cid, err := crons.Create(ctx, newCron(5, t0, "* * * * *", "c"))
		require.NoError(t, err)
		cronIDs = append(cronIDs, cid)
	}

	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(2)
		go func(id uint) {
			defer wg.Done()
			assert.NoError(t, oneShots.SetEdit(ctx, id, 5, constant.EditModeNone))
		}(ids[i])
		go func(id uint) {
			defer wg.Done()
			assert.NoError(t, crons.SetEdit(ctx, id, 5, constant.EditModeNone))
		}(cronIDs[i])
	}
	wg.Wait()

	assert.Equal(t, int64(1), editCount(t, db, 5))
}

func TestSetEditModeWithoutEditRowIsNoop(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)
	edits := NewEditRepository(db)

	id, err := oneShots.Create(ctx, newOneShot(5, t0, "r"))
	require.NoError(t, err)

	require.NoError(t, edits.SetEditMode(ctx, 5, constant.EditModeDescription))

	got, err := oneShots.FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Edit)
	assert.Equal(t, constant.EditModeNone, got.EditMode)

	current, err := edits.FindEdit(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestCommitDescriptionClosesTheSlot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)
	edits := NewEditRepository(db)

	id, err := oneShots.Create(ctx, newOneShot(5, t0, "old"))
	require.NoError(t, err)
	require.NoError(t, oneShots.SetEdit(ctx, id, 5, constant.EditModeNone))
	require.NoError(t, edits.SetEditMode(ctx, 5, constant.EditModeDescription))

	require.NoError(t, oneShots.CommitDescription(ctx, id, "new"))

	got, err := oneShots.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Desc)
	assert.False(t, got.Edit)
	assert.Equal(t, constant.EditModeNone, got.EditMode)
	assert.Equal(t, int64(0), editCount(t, db, 5))
}

func TestCommitCronExprClosesTheSlot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	crons := NewCronReminderRepository(db)

	id, err := crons.Create(ctx, newCron(5, t0, "0 * * * *", "c"))
	require.NoError(t, err)
	require.NoError(t, crons.SetEdit(ctx, id, 5, constant.EditModeNone))

	next := t0.Add(24 * time.Hour)
	require.NoError(t, crons.CommitCronExpr(ctx, id, "0 15 * * *", next))

	got, err := crons.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "0 15 * * *", got.CronExpr)
	assert.True(t, got.Time.Equal(next))
	assert.False(t, got.Edit)
}

func TestResetEditClearsBothTables(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	crons := NewCronReminderRepository(db)
	edits := NewEditRepository(db)

	id, err := crons.Create(ctx, newCron(5, t0, "0 * * * *", "c"))
	require.NoError(t, err)
	require.NoError(t, crons.SetEdit(ctx, id, 5, constant.EditModeNone))
	require.NoError(t, edits.SetEditMode(ctx, 5, constant.EditModeTime))

	require.NoError(t, edits.ResetEdit(ctx, 5))

	got, err := crons.FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Edit)
	assert.Equal(t, constant.EditModeNone, got.EditMode)
}

func TestFindSortedPendingMergesKinds(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)
	crons := NewCronReminderRepository(db)
	edits := NewEditRepository(db)

	late, err := oneShots.Create(ctx, newOneShot(1, t0.Add(2*time.Hour), "late"))
	require.NoError(t, err)
	tie, err := oneShots.Create(ctx, newOneShot(1, t0.Add(time.Hour), "tie one-shot"))
	require.NoError(t, err)
	cronTie, err := crons.Create(ctx, newCron(1, t0.Add(time.Hour), "0 * * * *", "tie cron"))
	require.NoError(t, err)
	early, err := crons.Create(ctx, newCron(1, t0, "0 * * * *", "early"))
	require.NoError(t, err)
	_, err = crons.Create(ctx, newCron(2, t0, "0 * * * *", "other chat"))
	require.NoError(t, err)

	all, err := edits.FindSortedPending(ctx, 1, false, false)
	require.NoError(t, err)
	require.Len(t, all, 4)

	type key struct {
		kind entity.Kind
		id   uint
	}
	var got []key
	for _, r := range all {
		got = append(got, key{r.Kind(), r.GetID()})
	}
	assert.Equal(t, []key{
		{entity.KindCron, early},
		{entity.KindOneShot, tie},
		{entity.KindCron, cronTie},
		{entity.KindOneShot, late},
	}, got)

	onlyCron, err := edits.FindSortedPending(ctx, 1, true, false)
	require.NoError(t, err)
	require.Len(t, onlyCron, 2)
	for _, r := range onlyCron {
		assert.True(t, r.IsCron())
	}

	none, err := edits.FindSortedPending(ctx, 1, true, true)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSetEditStoresModeInTheSameStep(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	crons := NewCronReminderRepository(db)
	edits := NewEditRepository(db)

	id, err := crons.Create(ctx, newCron(5, t0, "0 * * * *", "c"))
	require.NoError(t, err)
	require.NoError(t, crons.SetEdit(ctx, id, 5, constant.EditModeTime))

	current, err := edits.FindEdit(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, current)
	editing, mode := current.EditSlot()
	assert.True(t, editing)
	assert.Equal(t, constant.EditModeTime, mode)
}

func TestSetEditRejectsSentReminder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)
	edits := NewEditRepository(db)

	open, err := oneShots.Create(ctx, newOneShot(5, t0, "open"))
	require.NoError(t, err)
	done, err := oneShots.Create(ctx, newOneShot(5, t0, "done"))
	require.NoError(t, err)
	require.NoError(t, oneShots.MarkSent(ctx, done))
	require.NoError(t, oneShots.SetEdit(ctx, open, 5, constant.EditModeDescription))

	err = oneShots.SetEdit(ctx, done, 5, constant.EditModeDescription)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	got, err := oneShots.FindByID(ctx, done)
	require.NoError(t, err)
	assert.False(t, got.Edit)

	current, err := edits.FindEdit(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, open, current.GetID(), "the failed call must leave the previous slot in place")
}

func TestMarkSentReleasesTheEditSlot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	oneShots := NewReminderRepository(db)
	edits := NewEditRepository(db)

	id, err := oneShots.Create(ctx, newOneShot(5, t0, "firing mid-edit"))
	require.NoError(t, err)
	require.NoError(t, oneShots.SetEdit(ctx, id, 5, constant.EditModeDescription))

	require.NoError(t, oneShots.MarkSent(ctx, id))

	got, err := oneShots.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Sent)
	assert.False(t, got.Edit)
	assert.Equal(t, constant.EditModeNone, got.EditMode)
	assert.Equal(t, int64(0), editCount(t, db, 5))

	current, err := edits.FindEdit(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, current)
}
