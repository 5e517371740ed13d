package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	idsAllocatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrportal",
			Name:      "ids_allocated_total",
			Help:      "已分配的顺序编号数量。",
		},
		[]string{"prefix"},
	)

	payslipsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hrportal",
			Name:      "payslips_generated_total",
			Help:      "成功渲染并上传的工资条 PDF 数量。",
		},
	)
)

// RecordIDAllocated 记录一次编号分配。
func RecordIDAllocated(prefix string) {
	idsAllocatedTotal.WithLabelValues(prefix).Inc()
}

// RecordPayslipGenerated 记录一张工资条 PDF 生成完成。
func RecordPayslipGenerated() {
	payslipsGeneratedTotal.Inc()
}
