package exporter

// ProgressEvent 结果表写入进度：阶段、目标 Sheet、已写入的数据行数
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
	Section string `json:"section"`
	Rows    int    `json:"rows"`
}

// progressReporter 绑定一次写入的目标 Sheet 与数据总行数
type progressReporter struct {
	notify  func(ProgressEvent)
	section string
	total   int
}

func (p progressReporter) report(percent int, stage string, rows int) {
	if p.notify == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	p.notify(ProgressEvent{
		Percent: percent,
		Stage:   stage,
		Section: p.section,
		Rows:    rows,
	})
}

// rowsWritten 数据行阶段占 10%~90%，按已写行数线性推进
func (p progressReporter) rowsWritten(n int) {
	if p.total == 0 {
		return
	}
	p.report(10+n*80/p.total, "写入数据", n)
}
