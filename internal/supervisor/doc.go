// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package supervisor runs the server's long-lived goroutines under a suture v4
supervisor tree.

	hybridrec (root)
	├── messaging-layer
	│   └── recommend-service   training schedule and rebuild events
	└── api-layer
	    └── http-server         health, metrics and admin endpoints

Services return ctx.Err() on shutdown and a wrapped error on failure; suture
restarts failed services, backing off once FailureThreshold failures
accumulate (decaying at FailureDecay per second). Supervisor events are
logged through sutureslog into the zerolog pipeline.

Usage:

	tree := supervisor.NewSupervisorTree(nil, supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewRecommendService(engine, pubsub, svcCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

On shutdown, UnstoppedServiceReport names services that did not stop within
ShutdownTimeout.
*/
package supervisor
