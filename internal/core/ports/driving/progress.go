package driving

// ProgressInterval is how many records a job processes between progress notices.
const ProgressInterval = 100

// ProgressFunc receives periodic progress notices. It is observational only.
type ProgressFunc func(done, total int)
