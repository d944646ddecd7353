package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	defaultListLimit = 100

	errFormNotFound       = "form not found"
	errSubmissionNotFound = "submission not found"
	errFileNotFound       = "file not found"
	errUserNotFound       = "user not found"
	errAPIKeyNotFound     = "API key not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedGetFormFmt   = "failed to get form: %w"
	errFailedListFormsFmt = "failed to list forms: %w"
	errFailedScanFormFmt  = "failed to scan form: %w"
	errIterateFormsFmt    = "error iterating forms: %w"

	errFailedGetSubmissionFmt    = "failed to get submission: %w"
	errFailedListSubmissionsFmt  = "failed to list submissions: %w"
	errFailedScanSubmissionFmt   = "failed to scan submission: %w"
	errIterateSubmissionsFmt     = "error iterating submissions: %w"
	errFailedCreateSubmissionFmt = "failed to create submission: %w"

	errFailedGetFileFmt    = "failed to get file: %w"
	errFailedCreateFileFmt = "failed to create file: %w"
	errFailedDeleteFileFmt = "failed to delete file: %w"

	errFailedGetUserFmt = "failed to get user: %w"

	errFailedGetAPIKeyFmt      = "failed to get API key: %w"
	errFailedUpdateLastUsedFmt = "failed to update API key last used: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }

	errFailedGetForm   = func(err error) error { return fmt.Errorf(errFailedGetFormFmt, err) }
	errFailedListForms = func(err error) error { return fmt.Errorf(errFailedListFormsFmt, err) }
	errFailedScanForm  = func(err error) error { return fmt.Errorf(errFailedScanFormFmt, err) }
	errIterateForms    = func(err error) error { return fmt.Errorf(errIterateFormsFmt, err) }

	errFailedGetSubmission    = func(err error) error { return fmt.Errorf(errFailedGetSubmissionFmt, err) }
	errFailedListSubmissions  = func(err error) error { return fmt.Errorf(errFailedListSubmissionsFmt, err) }
	errFailedScanSubmission   = func(err error) error { return fmt.Errorf(errFailedScanSubmissionFmt, err) }
	errIterateSubmissions     = func(err error) error { return fmt.Errorf(errIterateSubmissionsFmt, err) }
	errFailedCreateSubmission = func(err error) error { return fmt.Errorf(errFailedCreateSubmissionFmt, err) }

	errFailedGetFile    = func(err error) error { return fmt.Errorf(errFailedGetFileFmt, err) }
	errFailedCreateFile = func(err error) error { return fmt.Errorf(errFailedCreateFileFmt, err) }
	errFailedDeleteFile = func(err error) error { return fmt.Errorf(errFailedDeleteFileFmt, err) }

	errFailedGetUser = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }

	errFailedGetAPIKey      = func(err error) error { return fmt.Errorf(errFailedGetAPIKeyFmt, err) }
	errFailedUpdateLastUsed = func(err error) error { return fmt.Errorf(errFailedUpdateLastUsedFmt, err) }
)
