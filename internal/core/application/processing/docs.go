// Package processing hosts the ProcessingEngine, the single entry point through
// which request handlers and jobs run commands.
//
// The engine is stateless between calls. Everything a batch touches lives in the
// unit of work handed to Execute, and the caller decides when that unit of work
// commits:
//
//	uow := uowFactory.Create()
//	defer uow.Close(ctx)
//
//	results, err := engine.Execute(ctx, uow, readBooks, insertBook)
//	if err != nil {
//	    return err // results holds everything up to and including the failure
//	}
//	return uow.Commit(ctx)
package processing
