package sync

// Events carries the callbacks the synchronizer emits while it works.
// Every field is optional; nil callbacks are skipped. Progress text is
// meant to be appended to a log view, not to replace previous lines.
type Events struct {
	Progress             func(text string)
	UpdateAvailable      func(version string)
	NoUpdateRequired     func()
	CheckForUpdateFailed func(reason string)
	UpdateFailed         func(reason string)
	UpdateDone           func()
	MyScheduleRefreshed  func()
}

func (e *Events) progress(text string) {
	if e.Progress != nil {
		e.Progress(text)
	}
}

func (e *Events) updateAvailable(version string) {
	if e.UpdateAvailable != nil {
		e.UpdateAvailable(version)
	}
}

func (e *Events) noUpdateRequired() {
	if e.NoUpdateRequired != nil {
		e.NoUpdateRequired()
	}
}

func (e *Events) checkForUpdateFailed(reason string) {
	if e.CheckForUpdateFailed != nil {
		e.CheckForUpdateFailed(reason)
	}
}

func (e *Events) updateFailed(reason string) {
	if e.UpdateFailed != nil {
		e.UpdateFailed(reason)
	}
}

func (e *Events) updateDone() {
	if e.UpdateDone != nil {
		e.UpdateDone()
	}
}

func (e *Events) myScheduleRefreshed() {
	if e.MyScheduleRefreshed != nil {
		e.MyScheduleRefreshed()
	}
}
