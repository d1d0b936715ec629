package threads

// ForEachIdx calls fn for every linear index of [0, domainSize) owned by the
// worker. Indices are strided over the group: worker w visits w, w+n, w+2n...
// so each index is visited by exactly one worker of the group.
func ForEachIdx(cfg WorkerCfg, domainSize int, fn func(linearIdx int)) {
	if cfg.numWorkers == 0 || domainSize <= 0 {
		return
	}
	stride := int(cfg.numWorkers)
	for idx := int(cfg.workerIdx); idx < domainSize; idx += stride {
		fn(idx)
	}
}

// Count reports how many indices of [0, domainSize) ForEachIdx visits for cfg.
func Count(cfg WorkerCfg, domainSize int) int {
	if cfg.numWorkers == 0 || domainSize <= int(cfg.workerIdx) {
		return 0
	}
	n := int(cfg.numWorkers)
	return (domainSize - int(cfg.workerIdx) + n - 1) / n
}
