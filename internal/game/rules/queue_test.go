package rules

import "testing"

func TestQueueOrdering(t *testing.T) {
	var applied []string
	q := NewActionQueue(func(a Action) {
		applied = append(applied, a.PlayerID)
	})

	q.Push(Action{Type: ActionMove, PlayerID: "a"})
	q.Push(Action{Type: ActionMove, PlayerID: "b"})
	q.Push(Action{Type: ActionMove, PlayerID: "c"})

	if cur := q.Current(); cur == nil || cur.PlayerID != "a" {
		t.Fatalf("expected current=a, got %+v", cur)
	}
	if len(applied) != 0 {
		t.Fatalf("push must not apply effects, applied=%v", applied)
	}

	for i := 0; i < 3; i++ {
		if !q.Complete() {
			t.Fatalf("complete %d returned false", i)
		}
	}
	if q.Current() != nil {
		t.Fatalf("expected idle queue, current=%+v", q.Current())
	}
	if len(applied) != 3 || applied[0] != "a" || applied[1] != "b" || applied[2] != "c" {
		t.Fatalf("effects out of order or duplicated: %v", applied)
	}
	if q.Complete() {
		t.Fatal("complete on idle queue must return false")
	}
}

func TestQueuePushWhileIdleBecomesCurrent(t *testing.T) {
	q := NewActionQueue(nil)
	q.Push(Action{Type: ActionTeleport, PlayerID: "a"})
	if cur := q.Current(); cur == nil || cur.Type != ActionTeleport {
		t.Fatalf("pushed action must become current immediately, got %+v", cur)
	}
	if q.Len() != 1 {
		t.Fatalf("expected len 1, got %d", q.Len())
	}
}

func TestQueuePushManyKeepsOrder(t *testing.T) {
	var applied []ActionType
	q := NewActionQueue(func(a Action) { applied = append(applied, a.Type) })
	q.PushMany([]Action{
		{Type: ActionMove, PlayerID: "a"},
		{Type: ActionToJail, PlayerID: "a"},
	})
	q.Complete()
	q.Complete()
	if len(applied) != 2 || applied[0] != ActionMove || applied[1] != ActionToJail {
		t.Fatalf("unexpected apply order: %v", applied)
	}
}

func TestQueuePushDuringApplyQueuesBehind(t *testing.T) {
	var q *ActionQueue
	var applied []string
	q = NewActionQueue(func(a Action) {
		applied = append(applied, a.PlayerID)
		if a.PlayerID == "a" {
			q.Push(Action{Type: ActionBankrupt, PlayerID: "z"})
		}
	})
	q.Push(Action{Type: ActionMove, PlayerID: "a"})
	q.Push(Action{Type: ActionMove, PlayerID: "b"})

	q.Complete() // applies a, which pushes z behind b
	q.Complete()
	q.Complete()
	if len(applied) != 3 || applied[1] != "b" || applied[2] != "z" {
		t.Fatalf("push during apply must queue FIFO, got %v", applied)
	}
}

func TestQueueClearDropsEverything(t *testing.T) {
	var applied int
	q := NewActionQueue(func(Action) { applied++ })
	q.Push(Action{Type: ActionMove, PlayerID: "a"})
	q.Push(Action{Type: ActionMove, PlayerID: "b"})
	q.Clear()
	if !q.Idle() {
		t.Fatal("expected idle after clear")
	}
	if q.Complete() {
		t.Fatal("complete after clear must be a no-op")
	}
	if applied != 0 {
		t.Fatalf("clear must not apply effects, applied=%d", applied)
	}
}
