// Package assessment defines the stored readiness assessment, the repository
// contract that stores implement, and the intake service used by the HTTP
// and CLI boundaries.
//
// # Records
//
// An Assessment is written once at intake and is never updated. Its payload
// fields (tech stack, ticket volume, ticket distribution) are opaque JSON
// blobs. CreatedAt is the only field retention looks at.
//
// # Repository
//
// Stores implement Repository:
//
//	id, err := repo.Insert(ctx, a)
//	a, err := repo.FindByID(ctx, id)          // (nil, nil) when absent
//	old, err := repo.FindOlderThan(ctx, cutoff) // oldest first, ties by id
//	n, err := repo.DeleteByIDs(ctx, ids)       // idempotent, best effort
//
// Every store failure is returned as a *StorageError. Callers classify it
// with IsStoreUnavailable.
//
// # Intake
//
//	svc := assessment.NewService(repo)
//	a, err := svc.Create(ctx, sub, time.Now())
//	var verr *assessment.ValidationError
//	if errors.As(err, &verr) {
//	    // verr.Missing lists the absent fields
//	}
package assessment
