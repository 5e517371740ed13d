package errcode

// 通知消息中的错误码：
// - 0：无错误
// - 4xxx：工资条已生成，但附带步骤未完成（例如员工没有邮箱、邮件发送失败）
// - 5xxx：渲染或上传失败，工资条不可下载
const (
	OK              = 0
	ResourceMissing = 4004
	SystemError     = 5000
)
