// Package workload drives dictionaries with a churn workload.
//
// A run inserts N text keys, deletes every other one, inserts N new keys,
// reads every live key back and walks the dictionary in both directions,
// checking values and order at each step. The tombstones left by the
// delete phase force the table through compaction, so a run exercises
// every structural path of the engine.
//
// Dictionaries are shared with the metrics scraper through Locked, which
// serializes access.
package workload
