package storekeep

// Version is the published SDK version.
// 0.4.0: Coordinate concurrent 401s through a single in-flight refresh;
// previously each failing request issued its own /refresh-token call.
// 0.3.0: Breaking - account-lock responses no longer clear credentials;
// they publish on the lock signal and surface as CodeAccountLocked.
// 0.2.0: Add file-backed credential store and session hydration from
// persisted identity fields after a restart.
const Version = "0.4.0"
