// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import "github.com/taibuivan/gqlsql/internal/engineerr"

func parseErr(msg string, cause error) *engineerr.Error {
	return engineerr.Wrap(engineerr.Parse, msg, cause)
}

func validationErr(msg string, path ...string) *engineerr.Error {
	return engineerr.New(engineerr.Validation, msg).WithPath(path...)
}

func compositionErr(msg string, cause error) *engineerr.Error {
	return engineerr.Wrap(engineerr.Composition, msg, cause)
}
