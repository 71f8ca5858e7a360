package chain

import (
	"time"

	"github.com/rs/zerolog"
)

// Observer is the chain controller's signal surface: a plain struct of
// optional callbacks a caller can set individually, mirroring the five
// signals a long-running optimization needs to surface (one sweep
// finished, the whole sweep loop converged, OptimizeChain converged at one
// bandwidth dimension, one site succeeded, one site failed its sanity
// checks and was left unchanged), plus a rank-deficiency warning from
// gauge transfer and projector building. Any field left nil is simply not
// called.
type Observer struct {
	OnSweepPerformed      func(startSiteNumber int, energy float32)
	OnSweepsConverged     func(numberOfSweeps int, energy float32)
	OnChainOptimized      func(bandwidthDimension int, energy float32)
	OnOptimizeSiteSuccess func(siteNumber int, eigenvalue float32)
	OnOptimizeSiteFailure func(siteNumber int, err error)
	OnRankDeficiency      func(siteNumber int, count int)
}

func (o Observer) fireSweepPerformed(i int, e float32) {
	if o.OnSweepPerformed != nil {
		o.OnSweepPerformed(i, e)
	}
}

func (o Observer) fireSweepsConverged(n int, e float32) {
	if o.OnSweepsConverged != nil {
		o.OnSweepsConverged(n, e)
	}
}

func (o Observer) fireChainOptimized(d int, e float32) {
	if o.OnChainOptimized != nil {
		o.OnChainOptimized(d, e)
	}
}

func (o Observer) fireOptimizeSiteSuccess(site int, eig float32) {
	if o.OnOptimizeSiteSuccess != nil {
		o.OnOptimizeSiteSuccess(site, eig)
	}
}

func (o Observer) fireOptimizeSiteFailure(site int, err error) {
	if o.OnOptimizeSiteFailure != nil {
		o.OnOptimizeSiteFailure(site, err)
	}
}

func (o Observer) fireRankDeficiency(site int, count int) {
	if count == 0 {
		return
	}
	if o.OnRankDeficiency != nil {
		o.OnRankDeficiency(site, count)
	}
}

// NewDefaultObserver returns an Observer that logs via logger: sweep and
// convergence events at info level, site failures at warn level, and
// rank-deficiency reports at warn level. Per-site success is high-frequency
// (up to 2N-1 calls a sweep) so it is throttled to at most once per
// interval rather than logged at every site.
func NewDefaultObserver(logger zerolog.Logger, interval time.Duration) Observer {
	throttle := newLogThrottle(interval)
	return Observer{
		OnSweepPerformed: func(startSite int, e float32) {
			logger.Info().Int("start_site", startSite).Float32("energy", e).Msg("sweep performed")
		},
		OnSweepsConverged: func(n int, e float32) {
			logger.Info().Int("sweeps", n).Float32("energy", e).Msg("sweeps converged")
		},
		OnChainOptimized: func(d int, e float32) {
			logger.Info().Int("bandwidth_dimension", d).Float32("energy", e).Msg("chain optimized")
		},
		OnOptimizeSiteSuccess: func(site int, eig float32) {
			if !throttle.Ok(time.Now()) {
				return
			}
			logger.Debug().Int("site", site).Float32("eigenvalue", eig).Msg("site optimized")
		},
		OnOptimizeSiteFailure: func(site int, err error) {
			logger.Warn().Int("site", site).Err(err).Msg("site optimization failed, left unchanged")
		},
		OnRankDeficiency: func(site int, count int) {
			logger.Warn().Int("site", site).Int("count", count).Msg("near-singular bond dimensions zeroed during gauge transfer")
		},
	}
}
