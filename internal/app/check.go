package app

import (
	"context"
	"fmt"
	"time"

	"nft-floor-alerts/internal/service"
)

// Check runs a single tick immediately and prints its report.
func (a *App) Check(ctx context.Context) (service.Report, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return service.Report{}, err
	}
	defer store.Close()

	transport, err := a.newTransport()
	if err != nil {
		return service.Report{}, err
	}
	registry, _ := a.newRegistry()

	svc := a.newService(nil, registry, store, transport)
	report, err := svc.Sweep(ctx, time.Now().UTC())
	if err != nil {
		return report, err
	}

	a.printReport(report)
	return report, nil
}

func (a *App) printReport(r service.Report) {
	if r.Skipped {
		fmt.Fprintf(a.Out, "tick %s skipped: another tracker holds the lock\n", r.TickID)
		return
	}
	fmt.Fprintf(a.Out, "tick %s at %s\n", r.TickID, r.At.Format(time.RFC3339))
	fmt.Fprintf(a.Out, "  collections: %d\n", r.Collections)
	fmt.Fprintf(a.Out, "  notified:    %d\n", r.Notified)
	fmt.Fprintf(a.Out, "  unchanged:   %d\n", r.Unchanged)
	fmt.Fprintf(a.Out, "  no data:     %d\n", r.NoData)
	fmt.Fprintf(a.Out, "  reconciled:  %d\n", r.Reconciled)
	fmt.Fprintf(a.Out, "  failed:      %d\n", r.Failed)
}
