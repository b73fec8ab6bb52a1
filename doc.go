// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package wordcount counts the tokens in every text file of a directory tree,
// counting files concurrently while the tree is still being walked.
//
// A [Counter] walks the tree depth first on the calling goroutine. Each
// matching file is registered with a [phaser.Phaser] and only then handed to
// a worker, so the set of registered parties always covers every file that
// could still be running. Workers fold their subtotal into a shared total and
// then arrive and deregister. Once the walk has returned, the walking
// goroutine arrives itself and waits for the phase to complete, which happens
// exactly when the last discovered file has been counted. The number of
// workers is therefore never known up front and never needs to be.
//
// Files that cannot be read and directories that cannot be listed do not stop
// the run. They contribute nothing to the total and are reported in
// [Result.Errs], so a result with errors is an undercount rather than a
// failure.
//
// Tokens are the non-empty runs of characters between the delimiters ',',
// ';', '!', '.' and ' '. See [Tokenize].
package wordcount
