// Package launcher sequences one launcher run: read the installed version,
// ask the release feed for the latest one, apply an update when they differ,
// then start the application.
//
// Only a failed feed lookup is absorbed. A missing version file, a failed
// update and a failed start end the run with ErrConfiguration, ErrUpdateFailed
// and ErrLaunchFailed respectively.
package launcher
