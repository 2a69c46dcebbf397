package entity

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func oneShot(id uint, at time.Time) *Reminder {
	return &Reminder{Common: Common{ID: id, ChatID: 1, Time: at, Desc: "one-shot"}}
}

func cronAt(id uint, at time.Time) *CronReminder {
	return &CronReminder{Common: Common{ID: id, ChatID: 1, Time: at, Desc: "cron"}, CronExpr: "0 * * * *"}
}

// mixed builds reminders that collide on due time and id across kinds.
func mixed() []GenericReminder {
	return []GenericReminder{
		oneShot(1, base),
		oneShot(2, base),
		oneShot(3, base.Add(time.Minute)),
		oneShot(4, base.Add(-time.Hour)),
		cronAt(1, base),
		cronAt(2, base.Add(-time.Hour)),
		cronAt(3, base.Add(2*time.Minute)),
		cronAt(4, base),
	}
}

func TestCompareIsStrictWeakOrder(t *testing.T) {
	less := func(a, b GenericReminder) bool { return Compare(a, b) < 0 }
	rs := mixed()
	for _, a := range rs {
		assert.False(t, less(a, a), "irreflexive: %s %d", a.Kind(), a.GetID())
		for _, b := range rs {
			if less(a, b) {
				assert.False(t, less(b, a), "asymmetric")
			}
			assert.Equal(t, Compare(a, b), -Compare(b, a), "antisymmetric compare")
			for _, c := range rs {
				if less(a, b) && less(b, c) {
					assert.True(t, less(a, c), "transitive")
				}
			}
		}
	}
}

func TestCompareDistinctElementsNeverTie(t *testing.T) {
	rs := mixed()
	for i, a := range rs {
		for j, b := range rs {
			if i != j {
				assert.NotZero(t, Compare(a, b))
			}
		}
	}
}

func TestSortIsIndependentOfInputOrder(t *testing.T) {
	want := mixed()
	SortReminders(want)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		got := mixed()
		rng.Shuffle(len(got), func(i, j int) { got[i], got[j] = got[j], got[i] })
		SortReminders(got)
		require.Len(t, got, len(want))
		for k := range want {
			assert.Equal(t, want[k].Kind(), got[k].Kind())
			assert.Equal(t, want[k].GetID(), got[k].GetID())
		}
	}
}

func TestSortDistinctTimesAscending(t *testing.T) {
	rs := []GenericReminder{
		cronAt(1, base.Add(3*time.Hour)),
		oneShot(1, base.Add(time.Hour)),
		cronAt(2, base),
		oneShot(2, base.Add(2*time.Hour)),
	}
	SortReminders(rs)
	for i := 1; i < len(rs); i++ {
		assert.True(t, rs[i-1].DueTime().Before(rs[i].DueTime()))
	}
}

func TestSortEqualTimesOneShotFirst(t *testing.T) {
	rs := []GenericReminder{cronAt(1, base), oneShot(9, base), cronAt(0, base), oneShot(5, base)}
	SortReminders(rs)

	assert.False(t, rs[0].IsCron())
	assert.Equal(t, uint(5), rs[0].GetID())
	assert.False(t, rs[1].IsCron())
	assert.Equal(t, uint(9), rs[1].GetID())
	assert.True(t, rs[2].IsCron())
	assert.Equal(t, uint(0), rs[2].GetID())
	assert.True(t, rs[3].IsCron())
}

func TestMergeExcludes(t *testing.T) {
	os := []*Reminder{oneShot(1, base.Add(time.Hour)), oneShot(2, base)}
	cs := []*CronReminder{cronAt(1, base.Add(30*time.Minute))}

	all := Merge(os, cs, false, false)
	require.Len(t, all, 3)
	assert.Equal(t, uint(2), all[0].GetID())
	assert.True(t, all[1].IsCron())
	assert.Equal(t, uint(1), all[2].GetID())

	onlyCron := Merge(os, cs, true, false)
	require.Len(t, onlyCron, 1)
	assert.True(t, onlyCron[0].IsCron())

	onlyOneShot := Merge(os, cs, false, true)
	require.Len(t, onlyOneShot, 2)
	for _, r := range onlyOneShot {
		assert.False(t, r.IsCron())
	}

	assert.Empty(t, Merge(os, cs, true, true))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("cron")
	assert.True(t, ok)
	assert.Equal(t, KindCron, k)

	k, ok = ParseKind("oneshot")
	assert.True(t, ok)
	assert.Equal(t, KindOneShot, k)

	_, ok = ParseKind("weekly")
	assert.False(t, ok)
}
