// Package tasks decides which playlist rules fire and performs their side effects.
//
// # Scheduling
//
// [Scheduler.Run] performs one pass over a JSON array of rules:
//
//  1. The clock is classified once into a weekday and a time-of-day period
//  2. Each element is decoded and validated on its own ([DecodeRule])
//  3. Valid rules are matched against the moment ([Matches])
//  4. Matched rules dispatch to capture or copy through a [RuleRunner]
//
// A rule that fails to decode, validate or run is recorded in the [Report] and the
// pass moves on. Rules run one at a time, in list order.
//
// A capture for the same embed ID runs at most once per pass; later rules reuse the result.
//
// # Progress Reporting
//
// Passes emit [ProgressUpdate] values on an optional channel. Sends never block.
//
// # Actions
//
// [Actions] implements [RuleRunner] against a [services.PlaylistAPI]:
//   - [Actions.Copy] : append or replace the playable tracks of one playlist into another
//   - [Actions.Capture] : extract the Daylist embed page and save it as a new private playlist
//
// # Locating the Daylist
//
// The Daylist's playlist ID changes over time. [Locator] scans the user's library for a
// playlist whose name carries a weekday and a period, with exactly 50 tracks, skipping
// user-made archives. The "daylist" copy source resolves through it.
package tasks
