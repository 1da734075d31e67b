package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/hisab-io/hisab/internal/models"
)

func TestGroupBalances(t *testing.T) {
	tests := []struct {
		name         string
		members      []string
		expenses     []*models.Expense
		settlements  []*models.Settlement
		validateFunc func(t *testing.T, balances []models.MemberBalance)
	}{
		{
			name:    "equal split expense before settlement",
			members: []string{"A", "B"},
			expenses: []*models.Expense{
				{Amount: 100.0, PaidBy: "A", Splits: []models.Split{{UserID: "A", Amount: 50.0}, {UserID: "B", Amount: 50.0}}},
			},
			validateFunc: func(t *testing.T, balances []models.MemberBalance) {
				if balances[0].Balance != 50.0 || balances[0].Status != models.StatusOwed {
					t.Errorf("A = %+v, want +50.00 owed", balances[0])
				}
				if balances[1].Balance != -50.0 || balances[1].Status != models.StatusOwes {
					t.Errorf("B = %+v, want -50.00 owes", balances[1])
				}
			},
		},
		{
			name:    "settlement clears balances",
			members: []string{"A", "B"},
			expenses: []*models.Expense{
				{Amount: 100.0, PaidBy: "A", Splits: []models.Split{{UserID: "A", Amount: 50.0}, {UserID: "B", Amount: 50.0}}},
			},
			settlements: []*models.Settlement{
				{FromUserID: "B", ToUserID: "A", Amount: 50.0, Status: models.SettlementConfirmed},
			},
			validateFunc: func(t *testing.T, balances []models.MemberBalance) {
				for _, b := range balances {
					if b.Balance != 0 || b.Status != models.StatusSettled {
						t.Errorf("%s = %+v, want 0.00 settled", b.UserID, b)
					}
				}
			},
		},
		{
			name:    "rejected settlement does not count",
			members: []string{"A", "B"},
			expenses: []*models.Expense{
				{Amount: 100.0, PaidBy: "A", Splits: []models.Split{{UserID: "A", Amount: 50.0}, {UserID: "B", Amount: 50.0}}},
			},
			settlements: []*models.Settlement{
				{FromUserID: "B", ToUserID: "A", Amount: 50.0, Status: models.SettlementRejected},
			},
			validateFunc: func(t *testing.T, balances []models.MemberBalance) {
				if balances[0].Balance != 50.0 {
					t.Errorf("A = %+v, want +50.00", balances[0])
				}
			},
		},
		{
			name:    "departed payer is skipped not errored",
			members: []string{"B", "C"},
			expenses: []*models.Expense{
				{Amount: 90.0, PaidBy: "gone", Splits: []models.Split{{UserID: "B", Amount: 30.0}, {UserID: "C", Amount: 30.0}, {UserID: "gone", Amount: 30.0}}},
			},
			validateFunc: func(t *testing.T, balances []models.MemberBalance) {
				if len(balances) != 2 {
					t.Fatalf("got %d balances, want 2 (current members only)", len(balances))
				}
				for _, b := range balances {
					if b.Balance != -30.0 || b.Status != models.StatusOwes {
						t.Errorf("%s = %+v, want -30.00 owes", b.UserID, b)
					}
				}
			},
		},
		{
			name:    "no history yields settled zeros",
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, balances []models.MemberBalance) {
				for _, b := range balances {
					if b.Balance != 0 || b.Status != models.StatusSettled {
						t.Errorf("%s = %+v, want 0.00 settled", b.UserID, b)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := GroupBalances(tt.members, tt.expenses, tt.settlements)
			tt.validateFunc(t, balances)
		})
	}
}

// TestGroupBalancesClosedSystem checks that when every event references
// current members, the balances always sum to zero within rounding tolerance.
func TestGroupBalancesClosedSystem(t *testing.T) {
	members := []string{"A", "B", "C", "D"}
	rng := rand.New(rand.NewSource(42))

	var expenses []*models.Expense
	for i := 0; i < 25; i++ {
		amount := Round2(rng.Float64()*500 + 1)
		splits, err := EqualSplits(amount, members)
		if err != nil {
			t.Fatal(err)
		}
		// Keep the system closed: make the payer credit match the split debits.
		var total float64
		for _, s := range splits {
			total += s.Amount
		}
		expenses = append(expenses, &models.Expense{
			Amount: Round2(total),
			PaidBy: members[rng.Intn(len(members))],
			Splits: splits,
		})
	}

	var settlements []*models.Settlement
	for i := 0; i < 10; i++ {
		from := members[rng.Intn(len(members))]
		to := members[rng.Intn(len(members))]
		if from == to {
			continue
		}
		settlements = append(settlements, &models.Settlement{
			FromUserID: from,
			ToUserID:   to,
			Amount:     Round2(rng.Float64() * 100),
			Status:     models.SettlementConfirmed,
		})
	}

	balances := GroupBalances(members, expenses, settlements)
	var sum float64
	for _, b := range balances {
		sum += b.Balance
	}
	if math.Abs(sum) > float64(len(members))*Tolerance {
		t.Errorf("balances sum = %v, want ~0", sum)
	}
}

// TestGroupBalancesOrderIndependent shuffles the event lists and checks the
// fold produces identical output.
func TestGroupBalancesOrderIndependent(t *testing.T) {
	members := []string{"A", "B", "C"}
	expenses := []*models.Expense{
		{Amount: 60.0, PaidBy: "A", Splits: []models.Split{{UserID: "A", Amount: 20.0}, {UserID: "B", Amount: 20.0}, {UserID: "C", Amount: 20.0}}},
		{Amount: 30.0, PaidBy: "B", Splits: []models.Split{{UserID: "A", Amount: 15.0}, {UserID: "B", Amount: 15.0}}},
		{Amount: 45.0, PaidBy: "C", Splits: []models.Split{{UserID: "C", Amount: 45.0}}},
	}
	settlements := []*models.Settlement{
		{FromUserID: "B", ToUserID: "A", Amount: 10.0, Status: models.SettlementConfirmed},
		{FromUserID: "C", ToUserID: "B", Amount: 5.0, Status: models.SettlementPending},
	}

	want := GroupBalances(members, expenses, settlements)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffledExp := append([]*models.Expense(nil), expenses...)
		rng.Shuffle(len(shuffledExp), func(a, b int) { shuffledExp[a], shuffledExp[b] = shuffledExp[b], shuffledExp[a] })
		shuffledSet := append([]*models.Settlement(nil), settlements...)
		rng.Shuffle(len(shuffledSet), func(a, b int) { shuffledSet[a], shuffledSet[b] = shuffledSet[b], shuffledSet[a] })

		got := GroupBalances(members, shuffledExp, shuffledSet)
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("iteration %d: balances[%d] = %+v, want %+v", i, j, got[j], want[j])
			}
		}
	}
}

func TestGroupBalancesDoesNotMutateInputs(t *testing.T) {
	members := []string{"A", "B"}
	exp := &models.Expense{Amount: 10.0, PaidBy: "A", Splits: []models.Split{{UserID: "A", Amount: 5.0}, {UserID: "B", Amount: 5.0}}}
	GroupBalances(members, []*models.Expense{exp}, nil)
	if exp.Amount != 10.0 || exp.Splits[0].Amount != 5.0 {
		t.Error("fold mutated its expense input")
	}
}
