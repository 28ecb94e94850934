package database

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"techmate/utils"
)

func TestClassifyTxError(t *testing.T) {
	writeConflict := mongo.CommandError{
		Code:   112,
		Name:   "WriteConflict",
		Labels: []string{"TransientTransactionError"},
	}
	tests := []struct {
		name       string
		err        error
		conflict   bool
		wantStatus int
	}{
		{name: "write conflict", err: writeConflict, conflict: true, wantStatus: http.StatusConflict},
		{name: "wrapped write conflict", err: fmt.Errorf("failed to debit balance: %w", writeConflict), conflict: true, wantStatus: http.StatusConflict},
		{name: "transient label only", err: mongo.CommandError{Code: 251, Labels: []string{"TransientTransactionError"}}, conflict: true, wantStatus: http.StatusConflict},
		{name: "unknown commit result", err: mongo.CommandError{Code: 50, Labels: []string{"UnknownTransactionCommitResult"}}, wantStatus: http.StatusServiceUnavailable},
		{name: "domain error", err: fmt.Errorf("%w: tech-1", utils.ErrAlreadySubscribed), wantStatus: http.StatusConflict},
		{name: "plain failure", err: errors.New("server selection timeout"), wantStatus: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTxError(tt.err)
			if errors.Is(got, utils.ErrConcurrentUpdate) != tt.conflict {
				t.Errorf("ErrConcurrentUpdate match = %v, want %v (err %v)", !tt.conflict, tt.conflict, got)
			}
			if status := utils.HTTPStatus(got); status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if !tt.conflict && got.Error() != tt.err.Error() {
				t.Errorf("err changed to %v", got)
			}
		})
	}
	if classifyTxError(nil) != nil {
		t.Error("nil error was classified")
	}
}
