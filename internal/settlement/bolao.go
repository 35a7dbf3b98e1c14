package settlement

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// resolveBolao pays out the match's prediction pool within the settlement
// transaction. Winners guessed the exact final score and split the pool;
// with no winners every entrant gets the entry fee back. Either way the
// pool transitions to paid exactly once.
func (o *Orchestrator) resolveBolao(ctx context.Context, tx pgx.Tx, match *domain.Match, final domain.FinalResult) error {
	bolao, err := o.boloes.FindOpenByMatch(ctx, tx, match.ID)
	if err != nil {
		return fmt.Errorf("find open bolao: %w", err)
	}
	if bolao == nil {
		return nil
	}

	finalScore := domain.Score{Home: final.HomeGoals, Away: final.AwayGoals}
	winners := bolao.ExactScoreWinners(finalScore)

	var paidWinners []domain.BolaoWinner
	if len(winners) > 0 {
		prizes := domain.SplitPool(bolao.PrizePool, len(winners))
		for i, w := range winners {
			meta, _ := json.Marshal(map[string]interface{}{"bolao_id": bolao.ID.String()})
			if _, err := o.engine.ExecuteCredit(ctx, tx, ledger.CreditParams{
				UserID:      w.UserID,
				Type:        domain.TxPrize,
				Description: fmt.Sprintf("Prêmio do bolão %s x %s", bolao.HomeTeam, bolao.AwayTeam),
				Amount:      prizes[i],
				RefID:       bolao.ID.String(),
				Metadata:    meta,
			}); err != nil {
				return fmt.Errorf("pay bolao winner %s: %w", w.UserID, err)
			}
			paidWinners = append(paidWinners, domain.BolaoWinner{UserID: w.UserID, Prize: prizes[i]})

			if err := o.notifyBolao(ctx, tx, w.UserID,
				"Você acertou o bolão!",
				fmt.Sprintf("Seu palpite %d-%d era o placar exato. Prêmio: R$ %.2f.",
					w.Guess.Home, w.Guess.Away, float64(prizes[i])/100)); err != nil {
				return err
			}
		}
	} else {
		for _, p := range bolao.Participants {
			meta, _ := json.Marshal(map[string]interface{}{"bolao_id": bolao.ID.String()})
			if _, err := o.engine.ExecuteCredit(ctx, tx, ledger.CreditParams{
				UserID:      p.UserID,
				Type:        domain.TxRefund,
				Description: fmt.Sprintf("Reembolso do bolão %s x %s", bolao.HomeTeam, bolao.AwayTeam),
				Amount:      bolao.EntryFee,
				RefID:       bolao.ID.String(),
				Metadata:    meta,
			}); err != nil {
				return fmt.Errorf("refund bolao entrant %s: %w", p.UserID, err)
			}
		}
	}

	settled, err := o.boloes.SettlePaid(ctx, tx, bolao.ID, finalScore, paidWinners)
	if err != nil {
		return err
	}
	if !settled {
		return domain.ErrConflict(fmt.Sprintf("bolao %s no longer open", bolao.ID))
	}

	bolao.Status = domain.BolaoPaid
	bolao.FinalScore = &finalScore
	bolao.Winners = paidWinners
	return o.outbox.Insert(ctx, tx, domain.NewBolaoResolvedEvent(bolao))
}

// CancelBolao refunds every entrant and closes the pool, for postponed or
// abandoned fixtures. Runs in its own transaction.
func (o *Orchestrator) CancelBolao(ctx context.Context, bolaoID uuid.UUID) domain.OpResult {
	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return domain.Fail("bolao %s: begin tx: %v", bolaoID, err)
	}
	defer tx.Rollback(ctx)

	bolao, err := o.boloes.FindByID(ctx, tx, bolaoID)
	if err != nil {
		return domain.Fail("bolao %s: %v", bolaoID, err)
	}
	if bolao == nil {
		return domain.Fail("bolao %s not found", bolaoID)
	}

	cancelled, err := o.boloes.Cancel(ctx, tx, bolaoID)
	if err != nil {
		return domain.Fail("bolao %s: cancel: %v", bolaoID, err)
	}
	if !cancelled {
		return domain.OK("bolao %s already closed", bolaoID)
	}

	for _, p := range bolao.Participants {
		if _, err := o.engine.ExecuteCredit(ctx, tx, ledger.CreditParams{
			UserID:      p.UserID,
			Type:        domain.TxRefund,
			Description: fmt.Sprintf("Bolão cancelado: %s x %s", bolao.HomeTeam, bolao.AwayTeam),
			Amount:      bolao.EntryFee,
			RefID:       bolao.ID.String(),
		}); err != nil {
			return domain.Fail("bolao %s: refund %s: %v", bolaoID, p.UserID, err)
		}
		if err := o.notifyBolao(ctx, tx, p.UserID,
			"Bolão cancelado",
			"A partida foi cancelada e sua entrada foi reembolsada."); err != nil {
			return domain.Fail("bolao %s: notify: %v", bolaoID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Fail("bolao %s: commit: %v", bolaoID, err)
	}
	return domain.OK("bolao %s cancelled, %d entries refunded", bolaoID, len(bolao.Participants))
}

func (o *Orchestrator) notifyBolao(ctx context.Context, tx pgx.Tx, userID, title, description string) error {
	notification := &domain.Notification{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Link:        "/bolao",
		IsPriority:  true,
	}
	if err := o.notifications.Insert(ctx, tx, notification); err != nil {
		return fmt.Errorf("bolao notification: %w", err)
	}
	return o.outbox.Insert(ctx, tx, domain.NewNotificationEvent(notification))
}
