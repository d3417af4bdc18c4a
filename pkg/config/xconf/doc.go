// Package xconf 基于 koanf 的配置文件加载与热重载。
//
// 支持 YAML（.yaml/.yml）与 JSON（.json）。文件内容先整体读入，
// 经 rawbytes provider 交给对应 parser，解析失败时保留旧配置。
//
//	var cfg xlogsvc.Config = xlogsvc.DefaultConfig()
//	if err := xconf.Load("/etc/app/log.yaml", &cfg); err != nil {
//		return err
//	}
//
// Unmarshal 使用 mapstructure，目标结构体中文件未出现的字段保持原值，
// 因此先填默认值再 Unmarshal 即可得到"文件覆盖默认值"的效果。
//
// # 配置监视
//
// [Watch] 基于 fsnotify 监视配置文件所在目录（兼容编辑器的原子写入），
// 内置防抖。Stop 之后不再触发新的回调，在回调中调用 Stop 不会死锁。
package xconf
